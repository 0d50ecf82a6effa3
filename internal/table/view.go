package table

import (
	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/row"
)

// Pagination is the metadata surfaced next to the visible page.
// TotalItems counts filtered rows, not the raw dataset.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
}

// View is everything a rendering collaborator needs to draw the table.
type View struct {
	TableID       string
	Revision      int64
	Columns       []column.Column
	Rows          []row.Row // visible page
	Pagination    Pagination
	Controls      Controls
	Search        string
	SortKey       string
	SortDirection Direction
	SelectedIDs   []row.ID
	AllSelected   bool
	Searchable    bool
	Selectable    bool
	Loading       bool
	Empty         bool // no rows on the visible page
	EmptyMessage  string
	Actions       []string // labels, only while at least one row is selected
	IDField       string

	selected map[row.ID]struct{}
}

// IsSelected reports whether r's identity is selected.
func (v View) IsSelected(r row.Row) bool {
	id, ok := r.IDOf(v.IDField)
	if !ok {
		return false
	}
	_, sel := v.selected[id]
	return sel
}

// View evaluates the pipeline for the current state.
func (t *Table) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.evaluate()
	s := t.state

	v := View{
		TableID:  t.id,
		Revision: s.Revision(),
		Columns:  t.cols.Columns(),
		Rows:     p.page.Rows,
		Pagination: Pagination{
			CurrentPage: s.Page(),
			TotalPages:  p.page.TotalPages,
			PageSize:    t.pageSize,
			TotalItems:  p.page.TotalItems,
		},
		Controls:      NewControls(s.Page(), p.page.TotalPages),
		Search:        s.Search(),
		SortKey:       s.SortKey(),
		SortDirection: s.SortDirection(),
		SelectedIDs:   s.SelectedIDs(),
		AllSelected:   allSelected(s, len(p.page.Rows), p.visibleIDs),
		Searchable:    t.searchable,
		Selectable:    t.selectable,
		Loading:       t.loading,
		Empty:         len(p.page.Rows) == 0,
		EmptyMessage:  t.emptyMessage,
		IDField:       t.idField,
		selected:      make(map[row.ID]struct{}, s.SelectionSize()),
	}
	for id := range s.selected {
		v.selected[id] = struct{}{}
	}
	if s.SelectionSize() > 0 {
		for _, a := range t.actions {
			v.Actions = append(v.Actions, a.Label)
		}
	}
	return v
}
