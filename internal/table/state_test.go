package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/datatable/internal/row"
)

func env(totalPages int, visible ...row.ID) Env {
	return Env{
		TotalPages: totalPages,
		VisibleIDs: visible,
		Searchable: true,
		Selectable: true,
		CanSort:    func(string) bool { return true },
	}
}

func apply(t *testing.T, s State, e Env, intents ...Intent) State {
	t.Helper()
	for _, in := range intents {
		s, _ = Reduce(s, in, e)
	}
	return s
}

func TestReduceSearchResetsPage(t *testing.T) {
	s := apply(t, NewState(), env(5), GoToPage{Page: 3})
	require.Equal(t, 3, s.Page())

	next, eff := Reduce(s, SetSearch{Text: "bo"}, env(5))
	assert.True(t, eff.Changed)
	assert.False(t, eff.SelectionChanged)
	assert.Equal(t, "bo", next.Search())
	assert.Equal(t, 1, next.Page())
	assert.Equal(t, 3, s.Page(), "input state is not modified")
}

func TestReduceSameSearchIsNoop(t *testing.T) {
	s := apply(t, NewState(), env(5), SetSearch{Text: "x"}, GoToPage{Page: 2})

	next, eff := Reduce(s, SetSearch{Text: "x"}, env(5))
	assert.False(t, eff.Changed)
	assert.Equal(t, 2, next.Page())
	assert.Equal(t, s.Revision(), next.Revision())
}

func TestReduceSearchIgnoredWhenNotSearchable(t *testing.T) {
	e := env(5)
	e.Searchable = false

	next, eff := Reduce(NewState(), SetSearch{Text: "x"}, e)
	assert.False(t, eff.Changed)
	assert.Equal(t, "", next.Search())
}

func TestReduceSortToggle(t *testing.T) {
	s := apply(t, NewState(), env(1), SortBy{Key: "age"})
	assert.Equal(t, "age", s.SortKey())
	assert.Equal(t, Asc, s.SortDirection())

	s = apply(t, s, env(1), SortBy{Key: "age"})
	assert.Equal(t, Desc, s.SortDirection())

	s = apply(t, s, env(1), SortBy{Key: "age"})
	assert.Equal(t, Asc, s.SortDirection())

	s = apply(t, s, env(1), SortBy{Key: "age"}, SortBy{Key: "name"})
	assert.Equal(t, "name", s.SortKey())
	assert.Equal(t, Asc, s.SortDirection(), "a new key starts ascending")

	s = apply(t, s, env(1), ClearSort{})
	assert.Equal(t, "", s.SortKey())
}

func TestReduceSortIgnoresUnsortable(t *testing.T) {
	e := env(1)
	e.CanSort = func(key string) bool { return key == "age" }

	_, eff := Reduce(NewState(), SortBy{Key: "notes"}, e)
	assert.False(t, eff.Changed)

	_, eff = Reduce(NewState(), SortBy{Key: ""}, e)
	assert.False(t, eff.Changed)
}

func TestReduceSortKeepsPage(t *testing.T) {
	s := apply(t, NewState(), env(3), GoToPage{Page: 2}, SortBy{Key: "age"})
	assert.Equal(t, 2, s.Page())
}

func TestReduceNavigationClamps(t *testing.T) {
	e := env(3)

	s := apply(t, NewState(), e, PrevPage{})
	assert.Equal(t, 1, s.Page())

	s = apply(t, s, e, NextPage{}, NextPage{}, NextPage{}, NextPage{})
	assert.Equal(t, 3, s.Page())

	s = apply(t, s, e, FirstPage{})
	assert.Equal(t, 1, s.Page())

	s = apply(t, s, e, LastPage{})
	assert.Equal(t, 3, s.Page())

	s = apply(t, s, e, GoToPage{Page: 99})
	assert.Equal(t, 3, s.Page())

	s = apply(t, s, e, GoToPage{Page: -2})
	assert.Equal(t, 1, s.Page())

	s = apply(t, s, env(0), LastPage{})
	assert.Equal(t, 1, s.Page(), "no pages still lands on page 1")
}

func TestReduceClampPage(t *testing.T) {
	s := apply(t, NewState(), env(5), GoToPage{Page: 5})
	s = apply(t, s, env(2), ClampPage{})
	assert.Equal(t, 2, s.Page())
}

func TestReduceToggleRow(t *testing.T) {
	s, eff := Reduce(NewState(), Toggle(row.IntID(1)), env(1))
	assert.True(t, eff.SelectionChanged)
	assert.True(t, s.IsSelected(row.IntID(1)))

	s, eff = Reduce(s, Toggle(row.IntID(1)), env(1))
	assert.True(t, eff.SelectionChanged)
	assert.False(t, s.IsSelected(row.IntID(1)))
	assert.Equal(t, 0, s.SelectionSize())
}

func TestReduceToggleRowWithoutIdentity(t *testing.T) {
	r := row.New(row.F("name", row.String("anon")))

	_, eff := Reduce(NewState(), ToggleRowOf(r, "id"), env(1))
	assert.False(t, eff.Changed)

	_, eff = Reduce(NewState(), ToggleRow{}, env(1))
	assert.False(t, eff.Changed)
}

func TestReduceSelectionRequiresSelectable(t *testing.T) {
	e := env(1, row.IntID(1))
	e.Selectable = false

	for _, in := range []Intent{Toggle(row.IntID(1)), ToggleAllVisible{Checked: true}, ClearSelection{}} {
		_, eff := Reduce(NewState(), in, e)
		assert.False(t, eff.Changed, IntentName(in))
	}
}

func TestReduceSelectionIsolatedBetweenStates(t *testing.T) {
	a := apply(t, NewState(), env(1), Toggle(row.IntID(1)))
	b := apply(t, a, env(1), Toggle(row.IntID(2)))

	assert.Equal(t, 1, a.SelectionSize(), "earlier state keeps its own selection")
	assert.Equal(t, 2, b.SelectionSize())
}

func TestReduceToggleAllVisible(t *testing.T) {
	page2 := env(3, row.IntID(3), row.IntID(4))

	s := apply(t, NewState(), page2, Toggle(row.IntID(9)))
	s, eff := Reduce(s, ToggleAllVisible{Checked: true}, page2)
	assert.True(t, eff.SelectionChanged)
	assert.Equal(t, []row.ID{row.IntID(3), row.IntID(4), row.IntID(9)}, s.SelectedIDs())
	assert.True(t, allSelected(s, 2, page2.VisibleIDs))

	s, eff = Reduce(s, ToggleAllVisible{Checked: false}, page2)
	assert.True(t, eff.SelectionChanged)
	assert.Equal(t, 0, s.SelectionSize(), "unchecking clears the whole selection")
}

func TestReduceClearSelectionNotifiesWhenEmpty(t *testing.T) {
	_, eff := Reduce(NewState(), ClearSelection{}, env(1))
	assert.True(t, eff.Changed)
	assert.True(t, eff.SelectionChanged)
}

func TestReduceReset(t *testing.T) {
	s := apply(t, NewState(), env(3, row.IntID(1)), SetSearch{Text: "x"}, SortBy{Key: "age"}, GoToPage{Page: 2}, Toggle(row.IntID(1)))

	next, eff := Reduce(s, Reset{}, env(3))
	assert.True(t, eff.SelectionChanged)
	assert.Equal(t, "", next.Search())
	assert.Equal(t, "", next.SortKey())
	assert.Equal(t, 1, next.Page())
	assert.Equal(t, 0, next.SelectionSize())

	_, eff = Reduce(NewState(), Reset{}, env(3))
	assert.False(t, eff.SelectionChanged)
}

func TestReduceRevisionCountsChanges(t *testing.T) {
	s := NewState()
	s = apply(t, s, env(3), NextPage{}, NextPage{}, NextPage{})
	assert.Equal(t, int64(2), s.Revision(), "the clamped third step changes nothing")
}

func TestAllSelected(t *testing.T) {
	s := apply(t, NewState(), env(1), Toggle(row.IntID(1)))

	assert.False(t, allSelected(s, 0, nil), "empty page is never all-selected")
	assert.True(t, allSelected(s, 1, []row.ID{row.IntID(1)}))
	assert.False(t, allSelected(s, 2, []row.ID{row.IntID(1), row.StringID("1")}))
	assert.True(t, allSelected(NewState(), 2, nil), "a page of rows without ids has nothing left to select")
	assert.True(t, allSelected(s, 3, []row.ID{row.IntID(1)}), "rows without ids are skipped")
}

func TestIntentName(t *testing.T) {
	assert.Equal(t, "set_search", IntentName(SetSearch{}))
	assert.Equal(t, "toggle_all_visible", IntentName(ToggleAllVisible{}))
	assert.Equal(t, "none", IntentName(nil))
}
