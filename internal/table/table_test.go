package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/row"
)

func peopleColumns() []column.Column {
	return []column.Column{
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "age", Header: "Age", Sortable: true, Align: column.AlignRight},
		{Key: "notes", Header: "Notes"},
	}
}

func newTestTable(t *testing.T, rows []row.Row, opts ...Option) *Table {
	t.Helper()
	opts = append([]Option{WithIDGenerator(NewFixedGenerator("tbl-1"))}, opts...)
	tbl, err := New(rows, peopleColumns(), opts...)
	require.NoError(t, err)
	return tbl
}

type selectionRecorder struct {
	mu    sync.Mutex
	calls [][]row.Row
}

func (r *selectionRecorder) record(selected []row.Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, selected)
}

func (r *selectionRecorder) last() []row.Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func TestTableSortSearchScenario(t *testing.T) {
	tbl := newTestTable(t, people(), WithPageSize(2))

	tbl.Dispatch(SortBy{Key: "age"})
	v := tbl.View()
	assert.Equal(t, []string{"Ann", "Cid"}, names(v.Rows))
	assert.Equal(t, 2, v.Pagination.TotalPages)
	assert.Equal(t, 3, v.Pagination.TotalItems)
	assert.Equal(t, "age", v.SortKey)
	assert.Equal(t, Asc, v.SortDirection)

	tbl.Dispatch(NextPage{})
	assert.Equal(t, []string{"Bob"}, names(tbl.View().Rows))

	tbl.Dispatch(SetSearch{Text: "bo"})
	v = tbl.View()
	assert.Equal(t, []string{"Bob"}, names(v.Rows))
	assert.Equal(t, 1, v.Pagination.CurrentPage)
	assert.Equal(t, 1, v.Pagination.TotalPages)
	assert.False(t, v.Controls.Visible)
}

func TestTableDefaults(t *testing.T) {
	tbl := newTestTable(t, people())
	v := tbl.View()

	assert.Equal(t, "tbl-1", v.TableID)
	assert.Equal(t, DefaultPageSize, v.Pagination.PageSize)
	assert.True(t, v.Searchable)
	assert.False(t, v.Selectable)
	assert.Equal(t, DefaultEmptyMessage, v.EmptyMessage)
	assert.Equal(t, []string{"Bob", "Ann", "Cid"}, names(v.Rows), "unsorted keeps dataset order")
	assert.Empty(t, v.Actions)
}

func TestTableEmptyView(t *testing.T) {
	tbl := newTestTable(t, people(), WithEmptyMessage("Nothing here"))
	tbl.Dispatch(SetSearch{Text: "zzz"})

	v := tbl.View()
	assert.True(t, v.Empty)
	assert.Equal(t, "Nothing here", v.EmptyMessage)
	assert.Equal(t, 0, v.Pagination.TotalPages)
	assert.False(t, v.AllSelected)
}

func TestTableInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero page size", WithPageSize(0)},
		{"empty id field", WithIDField("")},
		{"nil id generator", WithIDGenerator(nil)},
		{"empty action label", WithActions(Action{Label: ""})},
		{"duplicate action label", WithActions(Action{Label: "Delete"}, Action{Label: "Delete"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(people(), peopleColumns(), tt.opt)
			require.Error(t, err)
			assert.True(t, IsInvalidOption(err))
		})
	}
}

func TestTableRejectsBadColumns(t *testing.T) {
	_, err := New(people(), []column.Column{{Key: "a"}, {Key: "a"}})
	require.Error(t, err)
}

func TestTableSelectionSurvivesSearch(t *testing.T) {
	rec := &selectionRecorder{}
	tbl := newTestTable(t, people(), WithSelectable(true), WithOnSelectionChange(rec.record))

	tbl.Dispatch(Toggle(row.IntID(2)))
	tbl.Dispatch(SetSearch{Text: "bo"})

	v := tbl.View()
	assert.Equal(t, []string{"Bob"}, names(v.Rows))
	assert.Equal(t, []row.ID{row.IntID(2)}, v.SelectedIDs, "hidden rows stay selected")
	assert.False(t, v.AllSelected)

	tbl.Dispatch(Toggle(row.IntID(1)))
	assert.Equal(t, []string{"Bob", "Ann"}, names(rec.last()), "payload is in dataset order")
	assert.Equal(t, []string{"Bob", "Ann"}, names(tbl.SelectedRows()))
}

func TestTableSelectAllScopedToPage(t *testing.T) {
	rows := numbered(25)
	rec := &selectionRecorder{}
	tbl := newTestTable(t, rows, WithSelectable(true), WithOnSelectionChange(rec.record))

	tbl.Dispatch(GoToPage{Page: 2})
	tbl.Dispatch(ToggleAllVisible{Checked: true})

	v := tbl.View()
	assert.True(t, v.AllSelected)
	require.Len(t, v.SelectedIDs, 10)
	assert.Equal(t, row.IntID(11), v.SelectedIDs[0])
	assert.Equal(t, row.IntID(20), v.SelectedIDs[9])
	assert.Len(t, rec.last(), 10)

	tbl.Dispatch(NextPage{})
	assert.False(t, tbl.View().AllSelected)

	tbl.Dispatch(ToggleAllVisible{Checked: false})
	assert.Empty(t, tbl.View().SelectedIDs)
	assert.NotNil(t, rec.last())
	assert.Empty(t, rec.last())
}

func TestTableNotSelectableIgnoresSelection(t *testing.T) {
	rec := &selectionRecorder{}
	tbl := newTestTable(t, people(), WithOnSelectionChange(rec.record))

	eff := tbl.Dispatch(Toggle(row.IntID(1)))
	assert.False(t, eff.Changed)
	assert.Empty(t, rec.calls)
}

func TestTableUnsortableColumnIgnored(t *testing.T) {
	tbl := newTestTable(t, people())
	eff := tbl.Dispatch(SortBy{Key: "notes"})
	assert.False(t, eff.Changed)
	assert.Equal(t, "", tbl.View().SortKey)
}

func TestTableActions(t *testing.T) {
	var got []row.Row
	tbl := newTestTable(t, people(),
		WithSelectable(true),
		WithActions(Action{Label: "Archive", Icon: "📦", OnClick: func(sel []row.Row) { got = sel }}),
	)

	err := tbl.RunAction("Archive")
	require.Error(t, err)
	assert.True(t, IsNoSelection(err))
	assert.Empty(t, tbl.View().Actions, "actions hidden with no selection")

	err = tbl.RunAction("Nope")
	require.Error(t, err)
	assert.True(t, IsUnknownAction(err))

	tbl.Dispatch(Toggle(row.IntID(3)))
	assert.Equal(t, []string{"Archive"}, tbl.View().Actions)
	require.NoError(t, tbl.RunAction("Archive"))
	assert.Equal(t, []string{"Cid"}, names(got))
}

func TestTableClickRow(t *testing.T) {
	var clicked row.Row
	tbl := newTestTable(t, people(), WithOnRowClick(func(r row.Row) { clicked = r }))
	tbl.Dispatch(SortBy{Key: "name"})

	require.NoError(t, tbl.ClickRow(1))
	assert.Equal(t, row.String("Bob"), clicked["name"])

	err := tbl.ClickRow(3)
	require.Error(t, err)
	assert.True(t, IsRowOutOfRange(err))
}

func TestTableToggleVisibleRow(t *testing.T) {
	tbl := newTestTable(t, people(), WithSelectable(true))

	eff, err := tbl.ToggleVisibleRow(0)
	require.NoError(t, err)
	assert.True(t, eff.SelectionChanged)
	assert.Equal(t, []row.ID{row.IntID(1)}, tbl.View().SelectedIDs)

	_, err = tbl.ToggleVisibleRow(-1)
	assert.True(t, IsRowOutOfRange(err))
}

func TestTableRowsWithoutIdentity(t *testing.T) {
	rows := []row.Row{
		row.New(row.F("name", row.String("anon"))),
		row.New(row.F("id", row.Null{}), row.F("name", row.String("null id"))),
	}
	tbl := newTestTable(t, rows, WithSelectable(true))

	eff, err := tbl.ToggleVisibleRow(0)
	require.NoError(t, err)
	assert.False(t, eff.Changed)

	tbl.Dispatch(ToggleAllVisible{Checked: true})
	v := tbl.View()
	assert.Empty(t, v.SelectedIDs)
	assert.True(t, v.AllSelected, "no visible row has an id left to select")
}

func TestTableCustomIDField(t *testing.T) {
	rows := []row.Row{
		row.New(row.F("sku", row.String("A-1")), row.F("name", row.String("Widget"))),
		row.New(row.F("sku", row.String("B-2")), row.F("name", row.String("Gadget"))),
	}
	tbl := newTestTable(t, rows, WithSelectable(true), WithIDField("sku"))

	tbl.Dispatch(ToggleAllVisible{Checked: true})
	assert.Equal(t, []row.ID{row.StringID("A-1"), row.StringID("B-2")}, tbl.View().SelectedIDs)
	assert.Equal(t, "sku", tbl.IDField())
}

func TestTableReplaceRowsKeepsState(t *testing.T) {
	tbl := newTestTable(t, numbered(25), WithSelectable(true))
	tbl.Dispatch(LastPage{})
	tbl.Dispatch(Toggle(row.IntID(22)))

	tbl.ReplaceRows(numbered(5))
	v := tbl.View()
	assert.Equal(t, 3, v.Pagination.CurrentPage, "page is not clamped implicitly")
	assert.True(t, v.Empty)
	assert.Equal(t, []row.ID{row.IntID(22)}, v.SelectedIDs)
	assert.Empty(t, tbl.SelectedRows(), "selected id no longer in dataset")

	tbl.Dispatch(ClampPage{})
	v = tbl.View()
	assert.Equal(t, 1, v.Pagination.CurrentPage)
	assert.Len(t, v.Rows, 5)
}

func TestTableDoesNotMutateCallerRows(t *testing.T) {
	rows := people()
	tbl := newTestTable(t, rows)
	tbl.Dispatch(SortBy{Key: "name"})
	_ = tbl.View()

	rows[0] = row.New(row.F("name", row.String("Zed")))
	assert.Equal(t, []string{"Ann", "Bob", "Cid"}, names(tbl.View().Rows))
}

func TestTableLoading(t *testing.T) {
	tbl := newTestTable(t, nil, WithLoading(true))
	assert.True(t, tbl.View().Loading)

	tbl.SetLoading(false)
	assert.False(t, tbl.View().Loading)
}

func TestTableRevisionAdvances(t *testing.T) {
	tbl := newTestTable(t, people())
	before := tbl.View().Revision

	tbl.Dispatch(SortBy{Key: "age"})
	tbl.Dispatch(PrevPage{})
	assert.Equal(t, before+1, tbl.View().Revision)
}

func TestTableConcurrentDispatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &selectionRecorder{}
	tbl := newTestTable(t, numbered(100), WithSelectable(true), WithOnSelectionChange(rec.record))

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			tbl.Dispatch(Toggle(row.IntID(id)))
			_ = tbl.View()
		}(int64(i))
	}
	wg.Wait()

	assert.Len(t, tbl.View().SelectedIDs, 50)
	assert.Len(t, rec.calls, 50)
	assert.Len(t, tbl.SelectedRows(), 50)
}

func TestViewIsSelected(t *testing.T) {
	tbl := newTestTable(t, people(), WithSelectable(true))
	tbl.Dispatch(Toggle(row.IntID(2)))

	v := tbl.View()
	assert.True(t, v.IsSelected(people()[1]))
	assert.False(t, v.IsSelected(people()[0]))
	assert.False(t, v.IsSelected(row.New()))
}
