package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/datatable/internal/row"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testRows returns three people rows in a fixed order.
func testRows() []row.Row {
	return []row.Row{
		row.New(row.F("id", row.Int(1)), row.F("name", row.String("Bob")), row.F("age", row.Int(30))),
		row.New(row.F("id", row.Int(2)), row.F("name", row.String("Ann")), row.F("age", row.Int(25))),
		row.New(row.F("id", row.String("c-3")), row.F("name", row.String("Cid")), row.F("score", row.Float(2.5)), row.F("nick", row.Null{})),
	}
}
