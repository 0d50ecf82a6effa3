package table

import (
	"maps"
	"slices"

	"github.com/roach88/datatable/internal/row"
)

// State is the query state driving the pipeline. It is an immutable value:
// Reduce returns a new State and never modifies the one it was given.
type State struct {
	search   string
	sortKey  string
	sortDir  Direction
	page     int
	selected map[row.ID]struct{}
	revision int64
}

// NewState returns the state a table starts with: no search, no sort,
// page 1, nothing selected.
func NewState() State {
	return State{page: 1}
}

// Search returns the current search text.
func (s State) Search() string { return s.search }

// SortKey returns the active sort key, or "" when unsorted.
func (s State) SortKey() string { return s.sortKey }

// SortDirection returns the active sort direction.
func (s State) SortDirection() Direction { return s.sortDir }

// Page returns the current 1-based page number. It is not clamped.
func (s State) Page() int { return s.page }

// Revision counts applied transitions.
func (s State) Revision() int64 { return s.revision }

// IsSelected reports whether id is in the selection.
func (s State) IsSelected(id row.ID) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectionSize returns the number of selected ids.
func (s State) SelectionSize() int { return len(s.selected) }

// SelectedIDs returns the selected ids in CompareIDs order.
func (s State) SelectedIDs() []row.ID {
	ids := make([]row.ID, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, row.CompareIDs)
	return ids
}

// withSelection returns a copy of s whose selection is replaced by sel.
func (s State) withSelection(sel map[row.ID]struct{}) State {
	s.selected = sel
	return s
}

func (s State) cloneSelection() map[row.ID]struct{} {
	if s.selected == nil {
		return make(map[row.ID]struct{})
	}
	return maps.Clone(s.selected)
}

// Intent is a requested state transition. The set of intents is closed.
type Intent interface {
	intentName() string
}

// SetSearch replaces the search text and returns to page 1.
type SetSearch struct{ Text string }

// SortBy is a click on a sortable header: the active key flips direction,
// any other key becomes active in ascending order.
type SortBy struct{ Key string }

// ClearSort removes the active sort, restoring dataset order.
type ClearSort struct{}

// GoToPage jumps to a page, clamped into [1, totalPages].
type GoToPage struct{ Page int }

// FirstPage, PrevPage, NextPage and LastPage are the pagination buttons.
type (
	FirstPage struct{}
	PrevPage  struct{}
	NextPage  struct{}
	LastPage  struct{}
)

// ClampPage pulls the current page back into [1, totalPages], for use after
// the dataset shrinks.
type ClampPage struct{}

// ToggleRow adds or removes one identity. The zero value carries no
// identity and is a no-op; build one with Toggle.
type ToggleRow struct {
	id      row.ID
	defined bool
}

// Toggle returns a ToggleRow intent for id.
func Toggle(id row.ID) ToggleRow {
	return ToggleRow{id: id, defined: true}
}

// ToggleRowOf returns a ToggleRow intent for r's identity under idField.
// Rows without an identity produce the no-op zero value.
func ToggleRowOf(r row.Row, idField string) ToggleRow {
	id, ok := r.IDOf(idField)
	if !ok {
		return ToggleRow{}
	}
	return Toggle(id)
}

// ToggleAllVisible is the header checkbox. Checked adds every identified
// row on the current page; unchecked clears the whole selection, not just
// the visible page.
type ToggleAllVisible struct{ Checked bool }

// ClearSelection empties the selection.
type ClearSelection struct{}

// Reset discards the whole query state.
type Reset struct{}

func (SetSearch) intentName() string        { return "set_search" }
func (SortBy) intentName() string           { return "sort_by" }
func (ClearSort) intentName() string        { return "clear_sort" }
func (GoToPage) intentName() string         { return "go_to_page" }
func (FirstPage) intentName() string        { return "first_page" }
func (PrevPage) intentName() string         { return "prev_page" }
func (NextPage) intentName() string         { return "next_page" }
func (LastPage) intentName() string         { return "last_page" }
func (ClampPage) intentName() string        { return "clamp_page" }
func (ToggleRow) intentName() string        { return "toggle_row" }
func (ToggleAllVisible) intentName() string { return "toggle_all_visible" }
func (ClearSelection) intentName() string   { return "clear_selection" }
func (Reset) intentName() string            { return "reset" }

// IntentName returns the stable name of an intent, for logs and traces.
func IntentName(in Intent) string {
	if in == nil {
		return "none"
	}
	return in.intentName()
}

// Env is what the reducer needs to know about the derived pipeline and the
// table configuration.
type Env struct {
	TotalPages int
	VisibleIDs []row.ID // identities of current page rows, page order
	Searchable bool
	Selectable bool
	CanSort    func(key string) bool
}

// Effect reports what a transition did.
type Effect struct {
	// Changed is true when the state was replaced.
	Changed bool

	// SelectionChanged is true when a selection mutation was applied.
	// Listeners are notified even if the resulting set is equal.
	SelectionChanged bool
}

// Reduce applies one intent to s.
func Reduce(s State, in Intent, env Env) (State, Effect) {
	next, eff := reduce(s, in, env)
	if eff.Changed {
		next.revision = s.revision + 1
	}
	return next, eff
}

func reduce(s State, in Intent, env Env) (State, Effect) {
	changed := Effect{Changed: true}

	switch in := in.(type) {
	case SetSearch:
		if !env.Searchable || in.Text == s.search {
			return s, Effect{}
		}
		s.search = in.Text
		s.page = 1
		return s, changed

	case SortBy:
		if in.Key == "" || (env.CanSort != nil && !env.CanSort(in.Key)) {
			return s, Effect{}
		}
		if in.Key == s.sortKey {
			s.sortDir = s.sortDir.Toggle()
		} else {
			s.sortKey = in.Key
			s.sortDir = Asc
		}
		return s, changed

	case ClearSort:
		if s.sortKey == "" {
			return s, Effect{}
		}
		s.sortKey = ""
		s.sortDir = Asc
		return s, changed

	case GoToPage:
		return movePage(s, clampPage(in.Page, env.TotalPages))
	case FirstPage:
		return movePage(s, 1)
	case PrevPage:
		return movePage(s, clampPage(s.page-1, env.TotalPages))
	case NextPage:
		return movePage(s, clampPage(s.page+1, env.TotalPages))
	case LastPage:
		return movePage(s, clampPage(env.TotalPages, env.TotalPages))
	case ClampPage:
		return movePage(s, clampPage(s.page, env.TotalPages))

	case ToggleRow:
		if !env.Selectable || !in.defined {
			return s, Effect{}
		}
		sel := s.cloneSelection()
		if _, ok := sel[in.id]; ok {
			delete(sel, in.id)
		} else {
			sel[in.id] = struct{}{}
		}
		return s.withSelection(sel), Effect{Changed: true, SelectionChanged: true}

	case ToggleAllVisible:
		if !env.Selectable {
			return s, Effect{}
		}
		if !in.Checked {
			return s.withSelection(make(map[row.ID]struct{})), Effect{Changed: true, SelectionChanged: true}
		}
		sel := s.cloneSelection()
		for _, id := range env.VisibleIDs {
			sel[id] = struct{}{}
		}
		return s.withSelection(sel), Effect{Changed: true, SelectionChanged: true}

	case ClearSelection:
		if !env.Selectable {
			return s, Effect{}
		}
		return s.withSelection(make(map[row.ID]struct{})), Effect{Changed: true, SelectionChanged: true}

	case Reset:
		fresh := NewState()
		return fresh, Effect{Changed: true, SelectionChanged: len(s.selected) > 0}

	default:
		return s, Effect{}
	}
}

func movePage(s State, page int) (State, Effect) {
	if page == s.page {
		return s, Effect{}
	}
	s.page = page
	return s, Effect{Changed: true}
}

// allSelected is true when the page is non-empty and every identified row on
// it is selected. A page of rows without ids is trivially all-selected.
func allSelected(s State, pageLen int, visibleIDs []row.ID) bool {
	if pageLen == 0 {
		return false
	}
	for _, id := range visibleIDs {
		if !s.IsSelected(id) {
			return false
		}
	}
	return true
}
