package table

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/roach88/datatable/internal/row"
)

// Action is a bulk operation offered once at least one row is selected.
// OnClick receives every selected row from the full dataset.
type Action struct {
	Label   string
	Icon    string
	OnClick func(selected []row.Row)
}

// Option configures a Table.
type Option func(*Table)

// WithPageSize sets the number of rows per page.
//
// Default: 10 (DefaultPageSize). Values below 1 are rejected by New.
func WithPageSize(size int) Option {
	return func(t *Table) {
		t.pageSize = size
	}
}

// WithSearchable enables or disables free-text search. Default: true.
func WithSearchable(on bool) Option {
	return func(t *Table) {
		t.searchable = on
	}
}

// WithSelectable enables or disables row selection. Default: false.
func WithSelectable(on bool) Option {
	return func(t *Table) {
		t.selectable = on
	}
}

// WithEmptyMessage sets the message shown when no rows match.
func WithEmptyMessage(msg string) Option {
	return func(t *Table) {
		t.emptyMessage = msg
	}
}

// WithLoading sets the initial loading flag.
func WithLoading(on bool) Option {
	return func(t *Table) {
		t.loading = on
	}
}

// WithActions sets the bulk actions. Labels must be unique.
func WithActions(actions ...Action) Option {
	return func(t *Table) {
		t.actions = append([]Action(nil), actions...)
	}
}

// WithOnSelectionChange registers the selection listener.
func WithOnSelectionChange(fn func(selected []row.Row)) Option {
	return func(t *Table) {
		t.onSelectionChange = fn
	}
}

// WithOnRowClick registers the row click listener.
func WithOnRowClick(fn func(r row.Row)) Option {
	return func(t *Table) {
		t.onRowClick = fn
	}
}

// WithIDField sets the field holding row identity. Default: "id".
func WithIDField(field string) Option {
	return func(t *Table) {
		t.idField = field
	}
}

// WithLocale sets the collation locale used by sorting.
//
// Default: English (DefaultLocale).
func WithLocale(tag language.Tag) Option {
	return func(t *Table) {
		t.locale = tag
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		t.logger = l
	}
}

// WithIDGenerator sets the table id generator. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(t *Table) {
		t.idGen = g
	}
}

// DefaultEmptyMessage is shown when no rows match and none is configured.
const DefaultEmptyMessage = "No data"
