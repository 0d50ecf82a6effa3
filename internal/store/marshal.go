package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/datatable/internal/row"
)

// marshalRow converts a row to JSON TEXT for storage. Keys are sorted, so
// identical rows always produce identical bodies.
func marshalRow(r row.Row) (string, error) {
	data, err := r.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal row: %w", err)
	}
	return string(data), nil
}

// unmarshalRow parses a stored body back into a row. Integers come back as
// row.Int through json.Number, so identities survive the round trip.
func unmarshalRow(body string) (row.Row, error) {
	var r row.Row
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("unmarshal row: %w", err)
	}
	return r, nil
}
