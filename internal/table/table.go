package table

import (
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/text/language"

	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/row"
)

// Table is a data table over an in-memory dataset.
//
// Thread-safety model:
//   - Dispatch, View, ReplaceRows, SetLoading, RunAction, ClickRow: safe from
//     any goroutine; each holds the table mutex for one transition
//   - callbacks run outside the mutex, in the goroutine that triggered them
//
// INVARIANTS:
//   - the caller's rows are never mutated; stages return new slices
//   - columns never change after New
//   - every read recomputes Filter -> Sort -> Paginate from the current state
type Table struct {
	mu sync.Mutex

	id    string
	rows  []row.Row
	cols  column.Set
	state State

	pageSize     int
	searchable   bool
	selectable   bool
	emptyMessage string
	loading      bool
	idField      string
	locale       language.Tag
	actions      []Action

	onSelectionChange func([]row.Row)
	onRowClick        func(row.Row)

	logger *slog.Logger
	idGen  IDGenerator
}

// New creates a Table over rows with the given columns.
//
// The rows slice is copied; the rows themselves are shared and never
// written. Options can be passed to configure the table (e.g.,
// WithPageSize, WithSelectable).
func New(rows []row.Row, cols []column.Column, opts ...Option) (*Table, error) {
	set, err := column.NewSet(cols)
	if err != nil {
		return nil, err
	}

	t := &Table{
		rows:         slices.Clone(rows),
		cols:         set,
		state:        NewState(),
		pageSize:     DefaultPageSize,
		searchable:   true,
		emptyMessage: DefaultEmptyMessage,
		idField:      row.DefaultIDField,
		locale:       DefaultLocale,
		idGen:        UUIDv7Generator{},
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.id = t.idGen.Generate()
	t.logger = t.logger.With("table_id", t.id)

	t.logger.Debug("table created",
		"rows", len(t.rows),
		"columns", set.Len(),
		"page_size", t.pageSize,
		"selectable", t.selectable,
	)
	return t, nil
}

func (t *Table) validate() error {
	if t.pageSize < 1 {
		return newInvalidOptionError("page size must be at least 1, got %d", t.pageSize)
	}
	if t.idField == "" {
		return newInvalidOptionError("id field must not be empty")
	}
	if t.idGen == nil {
		return newInvalidOptionError("id generator must not be nil")
	}
	seen := make(map[string]bool, len(t.actions))
	for _, a := range t.actions {
		if a.Label == "" {
			return newInvalidOptionError("action label must not be empty")
		}
		if seen[a.Label] {
			return newInvalidOptionError("duplicate action label %q", a.Label)
		}
		seen[a.Label] = true
	}
	return nil
}

// ID returns the table instance id.
func (t *Table) ID() string {
	return t.id
}

// Columns returns the validated column set.
func (t *Table) Columns() column.Set {
	return t.cols
}

// IDField returns the field holding row identity.
func (t *Table) IDField() string {
	return t.idField
}

// State returns the current query state.
func (t *Table) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// pipeline holds one evaluation of Filter -> Sort -> Paginate.
type pipeline struct {
	filtered   []row.Row
	sorted     []row.Row
	page       Page
	visibleIDs []row.ID
}

// evaluate runs the pipeline for the current state. Callers hold t.mu.
func (t *Table) evaluate() pipeline {
	var p pipeline
	p.filtered = Filter(t.rows, t.state.search)
	p.sorted = Sort(p.filtered, t.state.sortKey, t.state.sortDir, t.locale)
	p.page = Paginate(p.sorted, t.pageSize, t.state.page)
	for _, r := range p.page.Rows {
		if id, ok := r.IDOf(t.idField); ok {
			p.visibleIDs = append(p.visibleIDs, id)
		}
	}
	return p
}

func (t *Table) env(p pipeline) Env {
	return Env{
		TotalPages: p.page.TotalPages,
		VisibleIDs: p.visibleIDs,
		Searchable: t.searchable,
		Selectable: t.selectable,
		CanSort:    t.cols.IsSortable,
	}
}

// Dispatch applies one intent. The read-reduce-write happens under the
// table mutex; OnSelectionChange is invoked afterwards with the selected
// rows of the full dataset, in dataset order.
func (t *Table) Dispatch(in Intent) Effect {
	t.mu.Lock()
	next, eff := Reduce(t.state, in, t.env(t.evaluate()))
	t.state = next

	var notify func([]row.Row)
	var payload []row.Row
	if eff.SelectionChanged && t.onSelectionChange != nil {
		notify = t.onSelectionChange
		payload = t.selectedRows()
	}
	t.mu.Unlock()

	t.logger.Debug("intent applied",
		"intent", IntentName(in),
		"changed", eff.Changed,
		"revision", next.Revision(),
	)

	if notify != nil {
		notify(payload)
	}
	return eff
}

// selectedRows returns dataset rows whose identity is selected, in dataset
// order. Callers hold t.mu.
func (t *Table) selectedRows() []row.Row {
	out := []row.Row{}
	if t.state.SelectionSize() == 0 {
		return out
	}
	for _, r := range t.rows {
		if id, ok := r.IDOf(t.idField); ok && t.state.IsSelected(id) {
			out = append(out, r)
		}
	}
	return out
}

// SelectedRows returns the selected rows from the full dataset.
func (t *Table) SelectedRows() []row.Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selectedRows()
}

// ReplaceRows swaps the dataset wholesale. Query state, including the
// selection and the current page, is kept; dispatch ClampPage if the page
// may now be out of range.
func (t *Table) ReplaceRows(rows []row.Row) {
	t.mu.Lock()
	t.rows = slices.Clone(rows)
	t.mu.Unlock()

	t.logger.Debug("rows replaced", "rows", len(rows))
}

// SetLoading sets the loading flag reported by View.
func (t *Table) SetLoading(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = on
}

// RunAction invokes the bulk action with the given label on the selected
// rows.
func (t *Table) RunAction(label string) error {
	t.mu.Lock()
	idx := slices.IndexFunc(t.actions, func(a Action) bool { return a.Label == label })
	if idx < 0 {
		t.mu.Unlock()
		return newUnknownActionError(t.id, label)
	}
	action := t.actions[idx]
	selected := t.selectedRows()
	t.mu.Unlock()

	if len(selected) == 0 {
		return newNoSelectionError(t.id, label)
	}

	t.logger.Debug("action invoked", "action", label, "selected", len(selected))
	if action.OnClick != nil {
		action.OnClick(selected)
	}
	return nil
}

// ClickRow invokes OnRowClick with the row at index on the visible page.
func (t *Table) ClickRow(index int) error {
	t.mu.Lock()
	p := t.evaluate()
	if index < 0 || index >= len(p.page.Rows) {
		t.mu.Unlock()
		return newRowOutOfRangeError(t.id, index, len(p.page.Rows))
	}
	r := p.page.Rows[index]
	fn := t.onRowClick
	t.mu.Unlock()

	if fn != nil {
		fn(r)
	}
	return nil
}

// ToggleVisibleRow toggles the selection of the row at index on the visible
// page. Rows without identity are a silent no-op.
func (t *Table) ToggleVisibleRow(index int) (Effect, error) {
	t.mu.Lock()
	p := t.evaluate()
	if index < 0 || index >= len(p.page.Rows) {
		t.mu.Unlock()
		return Effect{}, newRowOutOfRangeError(t.id, index, len(p.page.Rows))
	}
	in := ToggleRowOf(p.page.Rows[index], t.idField)
	t.mu.Unlock()

	return t.Dispatch(in), nil
}
