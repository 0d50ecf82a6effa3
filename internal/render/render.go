// Package render draws a table view as terminal text or JSON.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/table"
)

const (
	markerChecked   = "☑"
	markerUnchecked = "☐"
	loadingText     = "Loading…"
	ellipsis        = "…"
	sortAsc         = "▲"
	sortDesc        = "▼"
	cellSeparator   = " | "
	ruleSeparator   = "-+-"
	disabledControl = "·"
)

// Styles holds the lipgloss styles used for each part of the table.
type Styles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Footer   lipgloss.Style
	Action   lipgloss.Style
}

// DefaultStyles returns the colored styles used on a terminal. lipgloss
// drops the colors when output is not a TTY.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Cell:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Footer:   lipgloss.NewStyle().Italic(true),
		Action:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107")),
	}
}

// PlainStyles returns styles that add no escape sequences.
func PlainStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle(),
		Cell:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle(),
		Footer:   lipgloss.NewStyle(),
		Action:   lipgloss.NewStyle(),
	}
}

// Renderer renders table views as text.
type Renderer struct {
	styles Styles
	cursor int // -1 disables the cursor marker
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyles sets the styles. Default: PlainStyles.
func WithStyles(s Styles) Option {
	return func(r *Renderer) {
		r.styles = s
	}
}

// WithCursor marks the visible row at index with a ">" gutter.
func WithCursor(index int) Option {
	return func(r *Renderer) {
		r.cursor = index
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{styles: PlainStyles(), cursor: -1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Text renders v with the given options.
func Text(v table.View, opts ...Option) string {
	return New(opts...).Render(v)
}

// Render returns the text form of v: an optional search line, the header,
// a rule, the visible rows (or the loading / empty message), the
// pagination footer when there is more than one page, and the action bar
// when rows are selected.
func (r *Renderer) Render(v table.View) string {
	var lines []string

	if v.Search != "" {
		lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("Search: %q", v.Search)))
	}

	headers := make([]string, len(v.Columns))
	for i, col := range v.Columns {
		headers[i] = col.Title()
		if col.Key == v.SortKey && v.SortKey != "" {
			headers[i] += " " + sortMarker(v.SortDirection)
		}
	}

	cells := make([][]string, len(v.Rows))
	for i, rw := range v.Rows {
		cells[i] = make([]string, len(v.Columns))
		for j, col := range v.Columns {
			cells[i][j] = col.Display(rw, i)
		}
	}

	widths := columnWidths(v.Columns, headers, cells)
	gutter := r.cursor >= 0

	// Header.
	var head []string
	if gutter {
		head = append(head, " ")
	}
	if v.Selectable {
		head = append(head, marker(v.AllSelected))
	}
	for i, col := range v.Columns {
		head = append(head, r.styles.Header.Render(place(headers[i], widths[i], col.Align)))
	}
	lines = append(lines, joinLine(head, cellSeparator))

	// Rule.
	var rule []string
	if gutter {
		rule = append(rule, "-")
	}
	if v.Selectable {
		rule = append(rule, "-")
	}
	for _, w := range widths {
		rule = append(rule, strings.Repeat("-", w))
	}
	lines = append(lines, r.styles.Muted.Render(strings.Join(rule, ruleSeparator)))

	switch {
	case v.Loading:
		lines = append(lines, r.styles.Muted.Render(loadingText))
	case v.Empty:
		lines = append(lines, r.styles.Muted.Render(v.EmptyMessage))
	default:
		for i, rw := range v.Rows {
			selected := v.IsSelected(rw)
			style := r.styles.Cell
			if selected {
				style = r.styles.Selected
			}

			var parts []string
			if gutter {
				if i == r.cursor {
					parts = append(parts, ">")
				} else {
					parts = append(parts, " ")
				}
			}
			if v.Selectable {
				parts = append(parts, marker(selected))
			}
			for j, col := range v.Columns {
				parts = append(parts, style.Render(place(cells[i][j], widths[j], col.Align)))
			}
			lines = append(lines, joinLine(parts, cellSeparator))
		}
	}

	if v.Controls.Visible {
		lines = append(lines, "", r.styles.Footer.Render(Footer(v)))
	}

	if len(v.Actions) > 0 {
		bar := make([]string, len(v.Actions))
		for i, label := range v.Actions {
			bar[i] = r.styles.Action.Render("[" + label + "]")
		}
		lines = append(lines, "", fmt.Sprintf("%d selected: %s", len(v.SelectedIDs), strings.Join(bar, " ")))
	}

	return strings.Join(lines, "\n") + "\n"
}

// Footer returns the pagination control, e.g. "« ‹ Page 2 of 3 › »".
// Disabled buttons render as "·".
func Footer(v table.View) string {
	c := v.Controls
	return fmt.Sprintf("%s %s Page %d of %d %s %s",
		control("«", c.FirstDisabled),
		control("‹", c.PrevDisabled),
		v.Pagination.CurrentPage, v.Pagination.TotalPages,
		control("›", c.NextDisabled),
		control("»", c.LastDisabled),
	)
}

func control(label string, disabled bool) string {
	if disabled {
		return disabledControl
	}
	return label
}

func marker(checked bool) string {
	if checked {
		return markerChecked
	}
	return markerUnchecked
}

func sortMarker(d table.Direction) string {
	if d == table.Desc {
		return sortDesc
	}
	return sortAsc
}

// columnWidths uses the configured width, or sizes to the widest of the
// header and the visible cells.
func columnWidths(cols []column.Column, headers []string, cells [][]string) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		widths[i] = lipgloss.Width(headers[i])
		for _, rowCells := range cells {
			if w := lipgloss.Width(rowCells[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// place truncates s to width and pads it according to align.
func place(s string, width int, align column.Align) string {
	return lipgloss.PlaceHorizontal(width, position(align), truncate(s, width))
}

func position(a column.Align) lipgloss.Position {
	switch a {
	case column.AlignCenter:
		return lipgloss.Center
	case column.AlignRight:
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

func joinLine(parts []string, sep string) string {
	return strings.TrimRight(strings.Join(parts, sep), " ")
}
