// Package table implements the generic data table engine.
//
// A Table owns a caller-supplied dataset, a set of column descriptors and a
// single immutable query State (search text, sort key/direction, current
// page, selected row ids). Everything the caller sees is derived from those
// three inputs by a pure pipeline that is recomputed from scratch on every
// read:
//
//	rows -> Filter -> Sort -> Paginate -> visible rows
//
// ARCHITECTURE:
//
// Pure Stages:
// Filter, Sort and Paginate are exported, total functions. They never mutate
// their input and never fail; malformed rows degrade to empty text.
//
// Reducer:
// State changes only through Reduce(state, intent, env). Intents are small
// values (SetSearch, SortBy, NextPage, ToggleRow, ...). Keeping every
// transition in one function keeps the query-state invariants in one place:
//   - a new search always returns to page 1
//   - clicking the active sort key flips direction, a new key starts ascending
//   - selection is keyed by row identity and survives search, sort and paging
//   - rows without an identity never enter the selection
//
// Single Critical Section:
// Table.Dispatch reads, reduces and replaces the state under one mutex, so
// the selection set is read-modified-written atomically. Callbacks
// (OnSelectionChange, OnRowClick, action handlers) run after the lock is
// released with a payload computed inside it, so a callback may dispatch
// again without deadlocking.
//
// The Page stage does not clamp. Navigation intents clamp into
// [1, totalPages]; after ReplaceRows shrinks the dataset the caller
// dispatches ClampPage.
package table
