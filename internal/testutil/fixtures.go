package testutil

import (
	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/row"
)

// People returns three rows, two of them tied on age, in a fixed dataset
// order: Bob(30, id 1), Ann(25, id 2), Cid(25, id 3).
func People() []row.Row {
	return []row.Row{
		row.New(row.F("id", row.Int(1)), row.F("name", row.String("Bob")), row.F("age", row.Int(30))),
		row.New(row.F("id", row.Int(2)), row.F("name", row.String("Ann")), row.F("age", row.Int(25))),
		row.New(row.F("id", row.Int(3)), row.F("name", row.String("Cid")), row.F("age", row.Int(25))),
	}
}

// PeopleColumns returns sortable name and age columns for People.
func PeopleColumns() []column.Column {
	return []column.Column{
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "age", Header: "Age", Sortable: true, Align: column.AlignRight},
	}
}

// Numbered returns n rows with integer ids 1..n and a "name" of "row-<id>".
func Numbered(n int) []row.Row {
	rows := make([]row.Row, n)
	for i := range rows {
		id := int64(i + 1)
		rows[i] = row.New(
			row.F("id", row.Int(id)),
			row.F("name", row.String("row-"+row.Text(row.Int(id)))),
		)
	}
	return rows
}

// IDs returns the identities of rows under the default id field, skipping
// rows without one.
func IDs(rows []row.Row) []row.ID {
	ids := make([]row.ID, 0, len(rows))
	for _, r := range rows {
		if id, ok := r.ID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
