// Package column describes how table fields are labelled, aligned and
// displayed. Columns decide what is rendered and what is sortable; they do
// not limit which fields search looks at.
package column

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/roach88/datatable/internal/row"
)

// Placeholder is displayed for absent or null fields.
const Placeholder = "–"

// Align is the horizontal alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign accepts "left", "center" or "right" (empty means left).
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("unknown align %q: must be left, center or right", s)
	}
}

// Cell is the input handed to a column renderer.
type Cell struct {
	Value   row.Value
	Present bool
	Row     row.Row
	Index   int // position within the visible page
}

// RenderFunc maps a cell to displayable text.
type RenderFunc func(Cell) string

// Column describes one displayed field.
type Column struct {
	Key      string
	Header   string
	Sortable bool
	Align    Align
	Width    int // 0 means size to content
	Render   RenderFunc
}

// Display returns the text shown for r at the given page index.
// A custom renderer sees every cell, including absent ones.
func (c Column) Display(r row.Row, index int) string {
	v, ok := r.Get(c.Key)
	if c.Render != nil {
		return c.Render(Cell{Value: v, Present: ok, Row: r, Index: index})
	}
	if !ok {
		return Placeholder
	}
	if _, isNull := v.(row.Null); isNull {
		return Placeholder
	}
	return row.Text(v)
}

// Title returns the header, falling back to the key.
func (c Column) Title() string {
	if c.Header != "" {
		return c.Header
	}
	return c.Key
}

// Set is a validated, ordered list of columns.
type Set struct {
	cols  []Column
	index map[string]int
}

// NewSet validates cols and copies them. Keys must be non-empty and unique.
func NewSet(cols []Column) (Set, error) {
	s := Set{
		cols:  make([]Column, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	copy(s.cols, cols)

	for i, c := range s.cols {
		if strings.TrimSpace(c.Key) == "" {
			return Set{}, &Error{Code: ErrCodeInvalidColumn, Message: fmt.Sprintf("column %d has an empty key", i)}
		}
		if _, dup := s.index[c.Key]; dup {
			return Set{}, &Error{Code: ErrCodeDuplicateColumn, Message: fmt.Sprintf("duplicate column key %q", c.Key)}
		}
		if c.Width < 0 {
			return Set{}, &Error{Code: ErrCodeInvalidColumn, Message: fmt.Sprintf("column %q has negative width %d", c.Key, c.Width)}
		}
		s.index[c.Key] = i
	}
	return s, nil
}

// Infer builds left-aligned, sortable columns from the fields of the first
// row, identity field first.
func Infer(rows []row.Row, idField string) []Column {
	if len(rows) == 0 {
		return nil
	}
	fields := rows[0].Fields()
	if i := slices.Index(fields, idField); i > 0 {
		fields = append([]string{idField}, slices.Delete(fields, i, i+1)...)
	}
	cols := make([]Column, len(fields))
	for i, f := range fields {
		cols[i] = Column{Key: f, Header: f, Sortable: true}
	}
	return cols
}

// Columns returns a copy of the columns in declaration order.
func (s Set) Columns() []Column {
	return slices.Clone(s.cols)
}

// Len returns the number of columns.
func (s Set) Len() int {
	return len(s.cols)
}

// Lookup returns the column with the given key.
func (s Set) Lookup(key string) (Column, bool) {
	i, ok := s.index[key]
	if !ok {
		return Column{}, false
	}
	return s.cols[i], true
}

// IsSortable reports whether key names a sortable column.
func (s Set) IsSortable(key string) bool {
	c, ok := s.Lookup(key)
	return ok && c.Sortable
}

// SortableKeys returns the sortable column keys in declaration order.
func (s Set) SortableKeys() []string {
	var keys []string
	for _, c := range s.cols {
		if c.Sortable {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// Suggest returns the column key closest to key, for "did you mean" hints.
// It returns false when nothing is within a third of the key length.
func (s Set) Suggest(key string) (string, bool) {
	best, bestDist := "", -1
	for _, c := range s.cols {
		d := levenshtein.ComputeDistance(strings.ToLower(key), strings.ToLower(c.Key))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c.Key, d
		}
	}
	limit := len(key) / 3
	if limit < 1 {
		limit = 1
	}
	if bestDist < 0 || bestDist > limit {
		return "", false
	}
	return best, true
}

// UnknownKeyError builds an error for a key that names no column,
// including a suggestion when one is close.
func (s Set) UnknownKeyError(key string) error {
	msg := fmt.Sprintf("unknown column %q", key)
	if hint, ok := s.Suggest(key); ok {
		msg += fmt.Sprintf(" (did you mean %q?)", hint)
	}
	return &Error{Code: ErrCodeUnknownColumn, Message: msg}
}
