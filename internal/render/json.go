package render

import (
	"encoding/json"

	"github.com/roach88/datatable/internal/row"
	"github.com/roach88/datatable/internal/table"
)

// jsonView is the machine-readable form of a table.View.
type jsonView struct {
	TableID      string           `json:"table_id"`
	Revision     int64            `json:"revision"`
	Columns      []jsonColumn     `json:"columns"`
	Rows         []row.Row        `json:"rows"`
	Cells        [][]string       `json:"cells"`
	Pagination   table.Pagination `json:"pagination"`
	Controls     table.Controls   `json:"controls"`
	Search       string           `json:"search"`
	Sort         *jsonSort        `json:"sort,omitempty"`
	SelectedIDs  []row.ID         `json:"selected_ids"`
	AllSelected  bool             `json:"all_selected"`
	Searchable   bool             `json:"searchable"`
	Selectable   bool             `json:"selectable"`
	Loading      bool             `json:"loading"`
	Empty        bool             `json:"empty"`
	EmptyMessage string           `json:"empty_message"`
	Actions      []string         `json:"actions"`
}

type jsonColumn struct {
	Key      string `json:"key"`
	Header   string `json:"header"`
	Sortable bool   `json:"sortable"`
	Align    string `json:"align"`
	Width    int    `json:"width,omitempty"`
}

type jsonSort struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// JSON returns the indented JSON form of v. Rows keep their raw values;
// cells hold the displayed text of each visible row, column by column.
func JSON(v table.View) ([]byte, error) {
	out := jsonView{
		TableID:      v.TableID,
		Revision:     v.Revision,
		Columns:      make([]jsonColumn, len(v.Columns)),
		Rows:         v.Rows,
		Cells:        make([][]string, len(v.Rows)),
		Pagination:   v.Pagination,
		Controls:     v.Controls,
		Search:       v.Search,
		SelectedIDs:  v.SelectedIDs,
		AllSelected:  v.AllSelected,
		Searchable:   v.Searchable,
		Selectable:   v.Selectable,
		Loading:      v.Loading,
		Empty:        v.Empty,
		EmptyMessage: v.EmptyMessage,
		Actions:      v.Actions,
	}
	if out.Rows == nil {
		out.Rows = []row.Row{}
	}
	if out.SelectedIDs == nil {
		out.SelectedIDs = []row.ID{}
	}
	if out.Actions == nil {
		out.Actions = []string{}
	}
	for i, col := range v.Columns {
		out.Columns[i] = jsonColumn{
			Key:      col.Key,
			Header:   col.Title(),
			Sortable: col.Sortable,
			Align:    col.Align.String(),
			Width:    col.Width,
		}
	}
	for i, r := range v.Rows {
		out.Cells[i] = make([]string, len(v.Columns))
		for j, col := range v.Columns {
			out.Cells[i][j] = col.Display(r, i)
		}
	}
	if v.SortKey != "" {
		out.Sort = &jsonSort{Key: v.SortKey, Direction: v.SortDirection.String()}
	}
	return json.MarshalIndent(out, "", "  ")
}
