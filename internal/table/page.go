package table

import "github.com/roach88/datatable/internal/row"

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 10

// Page is one slice of an ordered result set.
type Page struct {
	Rows       []row.Row
	Number     int // requested page, 1-based, not clamped
	Size       int
	TotalPages int
	TotalItems int
}

// TotalPages returns ceil(items / size); zero items give zero pages.
// A size below 1 is treated as DefaultPageSize.
func TotalPages(items, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if items <= 0 {
		return 0
	}
	return (items + size - 1) / size
}

// Paginate returns rows[(page-1)*size : page*size], clipped to the input.
// Pages outside [1, TotalPages] are empty rather than an error; callers
// that need a valid page clamp it themselves. The returned slice has its
// capacity clipped so appends never write into rows.
func Paginate(rows []row.Row, size, page int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	p := Page{
		Rows:       []row.Row{},
		Number:     page,
		Size:       size,
		TotalPages: TotalPages(len(rows), size),
		TotalItems: len(rows),
	}
	if page < 1 || page-1 >= p.TotalPages {
		return p
	}

	start := (page - 1) * size
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	p.Rows = rows[start:end:end]
	return p
}

// Controls describes the pagination control: first, previous, next and
// last buttons with their disabled state. The control is hidden when there
// is at most one page.
type Controls struct {
	Visible       bool `json:"visible"`
	FirstDisabled bool `json:"first_disabled"`
	PrevDisabled  bool `json:"prev_disabled"`
	NextDisabled  bool `json:"next_disabled"`
	LastDisabled  bool `json:"last_disabled"`
}

// NewControls derives the control state for page out of totalPages.
func NewControls(page, totalPages int) Controls {
	atStart := page <= 1
	atEnd := page >= totalPages
	return Controls{
		Visible:       totalPages > 1,
		FirstDisabled: atStart,
		PrevDisabled:  atStart,
		NextDisabled:  atEnd,
		LastDisabled:  atEnd,
	}
}

// clampPage returns page limited to [1, max(totalPages, 1)].
func clampPage(page, totalPages int) int {
	upper := totalPages
	if upper < 1 {
		upper = 1
	}
	switch {
	case page < 1:
		return 1
	case page > upper:
		return upper
	}
	return page
}
