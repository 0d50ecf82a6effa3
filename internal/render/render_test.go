package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/row"
	"github.com/roach88/datatable/internal/table"
)

func peopleTable(t *testing.T, opts ...table.Option) *table.Table {
	t.Helper()
	rows := []row.Row{
		row.New(row.F("id", row.Int(1)), row.F("name", row.String("Bob")), row.F("age", row.Int(30))),
		row.New(row.F("id", row.Int(2)), row.F("name", row.String("Ann")), row.F("age", row.Int(25))),
		row.New(row.F("id", row.Int(3)), row.F("name", row.String("Cid")), row.F("age", row.Int(25))),
	}
	cols := []column.Column{
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "age", Header: "Age", Sortable: true, Align: column.AlignRight},
	}
	opts = append([]table.Option{table.WithIDGenerator(table.NewFixedGenerator("tbl-render"))}, opts...)
	tbl, err := table.New(rows, cols, opts...)
	require.NoError(t, err)
	return tbl
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderPageWithSelection(t *testing.T) {
	tbl := peopleTable(t,
		table.WithPageSize(2),
		table.WithSelectable(true),
		table.WithActions(table.Action{Label: "Archive"}),
	)
	tbl.Dispatch(table.SortBy{Key: "age"})
	tbl.Dispatch(table.Toggle(row.IntID(2)))

	golden(t).Assert(t, "page_selected", []byte(Text(tbl.View())))
}

func TestRenderEmpty(t *testing.T) {
	tbl := peopleTable(t, table.WithEmptyMessage("No people found"))
	tbl.Dispatch(table.SetSearch{Text: "zzz"})

	golden(t).Assert(t, "empty", []byte(Text(tbl.View())))
}

func TestRenderLoading(t *testing.T) {
	tbl := peopleTable(t, table.WithLoading(true))
	out := Text(tbl.View())

	assert.Contains(t, out, "Loading…")
	assert.NotContains(t, out, "Bob")
}

func TestRenderFooterHiddenOnSinglePage(t *testing.T) {
	out := Text(peopleTable(t).View())
	assert.NotContains(t, out, "Page 1 of 1")
	assert.Contains(t, out, "Bob")
}

func TestRenderDescMarkerAndCursor(t *testing.T) {
	tbl := peopleTable(t)
	tbl.Dispatch(table.SortBy{Key: "name"})
	tbl.Dispatch(table.SortBy{Key: "name"})

	out := Text(tbl.View(), WithCursor(0))
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "Name ▼")
	assert.True(t, strings.HasPrefix(lines[2], "> | Cid"), "got %q", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "  | Bob"), "got %q", lines[3])
}

func TestFooter(t *testing.T) {
	tbl := peopleTable(t, table.WithPageSize(1))
	tbl.Dispatch(table.NextPage{})
	assert.Equal(t, "« ‹ Page 2 of 3 › »", Footer(tbl.View()))

	tbl.Dispatch(table.LastPage{})
	assert.Equal(t, "« ‹ Page 3 of 3 · ·", Footer(tbl.View()))
}

func TestPlace(t *testing.T) {
	assert.Equal(t, "ab   ", place("ab", 5, column.AlignLeft))
	assert.Equal(t, "   ab", place("ab", 5, column.AlignRight))
	assert.Equal(t, " ab  ", place("ab", 5, column.AlignCenter))
	assert.Equal(t, "abcd…", place("abcdefgh", 5, column.AlignLeft))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestColumnWidthOverride(t *testing.T) {
	cols := []column.Column{{Key: "name", Width: 3}}
	rows := []row.Row{row.New(row.F("id", row.Int(1)), row.F("name", row.String("Bartholomew")))}
	tbl, err := table.New(rows, cols, table.WithIDGenerator(table.NewFixedGenerator("w")))
	require.NoError(t, err)

	out := Text(tbl.View())
	assert.Contains(t, out, "Ba…")
	assert.NotContains(t, out, "Bartholomew")
}

func TestJSON(t *testing.T) {
	tbl := peopleTable(t, table.WithPageSize(2), table.WithSelectable(true))
	tbl.Dispatch(table.SortBy{Key: "age"})
	tbl.Dispatch(table.ToggleAllVisible{Checked: true})

	data, err := JSON(tbl.View())
	require.NoError(t, err)

	var got struct {
		TableID    string            `json:"table_id"`
		Cells      [][]string        `json:"cells"`
		Pagination map[string]int    `json:"pagination"`
		Sort       map[string]string `json:"sort"`
		Selected   []any             `json:"selected_ids"`
		All        bool              `json:"all_selected"`
		Actions    []string          `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "tbl-render", got.TableID)
	assert.Equal(t, [][]string{{"Ann", "25"}, {"Cid", "25"}}, got.Cells)
	assert.Equal(t, map[string]int{"current_page": 1, "total_pages": 2, "page_size": 2, "total_items": 3}, got.Pagination)
	assert.Equal(t, map[string]string{"key": "age", "direction": "asc"}, got.Sort)
	assert.Equal(t, []any{float64(2), float64(3)}, got.Selected)
	assert.True(t, got.All)
	assert.Equal(t, []string{}, got.Actions)
}
