// Package schema compiles CUE table layouts into column sets and table
// options.
//
// A layout file declares one or more tables under the top-level "table"
// struct:
//
//	table: people: {
//		id_field:      "id"
//		page_size:     10
//		selectable:    true
//		empty_message: "No people found"
//		columns: [
//			{key: "name", header: "Name", sortable: true},
//			{key: "age", header: "Age", sortable: true, align: "right", width: 5},
//			{key: "active", header: "Active", render: "yesno"},
//		]
//	}
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/table"
)

// layoutSchema constrains field types. Presence and value checks that need
// a precise error are done while extracting.
const layoutSchema = `
#Column: {
	key:       string
	header?:   string
	sortable?: bool
	align?:    string
	width?:    int
	render?:   string
}

#Table: {
	id_field?:      string
	page_size?:     int
	searchable?:    bool
	selectable?:    bool
	empty_message?: string
	columns?: [...#Column]
}
`

// Layout is a compiled table layout. Pointer and zero-valued fields are
// unset and leave the table default (or configuration) in place.
type Layout struct {
	Name         string
	IDField      string
	PageSize     int
	Searchable   *bool
	Selectable   *bool
	EmptyMessage *string
	Columns      []column.Column

	// Renderers records the preset name of each column, by key.
	Renderers map[string]string

	Pos token.Pos
}

// Options returns the table options for every field the layout sets.
func (l *Layout) Options() []table.Option {
	var opts []table.Option
	if l.IDField != "" {
		opts = append(opts, table.WithIDField(l.IDField))
	}
	if l.PageSize > 0 {
		opts = append(opts, table.WithPageSize(l.PageSize))
	}
	if l.Searchable != nil {
		opts = append(opts, table.WithSearchable(*l.Searchable))
	}
	if l.Selectable != nil {
		opts = append(opts, table.WithSelectable(*l.Selectable))
	}
	if l.EmptyMessage != nil {
		opts = append(opts, table.WithEmptyMessage(*l.EmptyMessage))
	}
	return opts
}

// Compile parses a CUE value into a Layout.
//
// The value should be the table struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`table: people: { columns: [{key: "name"}] }`)
//	layout, err := Compile(v.LookupPath(cue.ParsePath("table.people")))
func Compile(v cue.Value) (*Layout, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	layout := &Layout{
		Name:      labelName(v),
		Renderers: make(map[string]string),
		Pos:       v.Pos(),
	}

	def := v.Context().CompileString(layoutSchema).LookupPath(cue.ParsePath("#Table"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("compiling layout schema: %w", err)
	}
	if err := v.Unify(def).Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var err error
	if layout.IDField, err = lookupString(v, "id_field"); err != nil {
		return nil, err
	}
	if v.LookupPath(cue.ParsePath("id_field")).Exists() && layout.IDField == "" {
		return nil, &CompileError{Field: "id_field", Message: "id_field must not be empty", Pos: v.Pos()}
	}

	if sizeVal := v.LookupPath(cue.ParsePath("page_size")); sizeVal.Exists() {
		size, err := sizeVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if size < 1 {
			return nil, &CompileError{
				Field:   "page_size",
				Message: fmt.Sprintf("page_size must be at least 1, got %d", size),
				Pos:     sizeVal.Pos(),
			}
		}
		layout.PageSize = int(size)
	}

	if layout.Searchable, err = lookupBool(v, "searchable"); err != nil {
		return nil, err
	}
	if layout.Selectable, err = lookupBool(v, "selectable"); err != nil {
		return nil, err
	}
	if msgVal := v.LookupPath(cue.ParsePath("empty_message")); msgVal.Exists() {
		msg, err := msgVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		layout.EmptyMessage = &msg
	}

	layout.Columns, err = parseColumns(v, layout.Renderers)
	if err != nil {
		return nil, err
	}

	if _, err := column.NewSet(layout.Columns); err != nil {
		return nil, &CompileError{Field: "columns", Message: err.Error(), Pos: v.Pos()}
	}
	return layout, nil
}

// parseColumns parses the columns list. At least one column is required.
func parseColumns(v cue.Value, renderers map[string]string) ([]column.Column, error) {
	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if !colsVal.Exists() {
		return nil, &CompileError{
			Field:   "columns",
			Message: "columns is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := colsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var cols []column.Column
	for i := 0; iter.Next(); i++ {
		colVal := iter.Value()
		field := fmt.Sprintf("columns[%d]", i)

		col := column.Column{}
		if col.Key, err = lookupString(colVal, "key"); err != nil {
			return nil, err
		}
		if col.Key == "" {
			return nil, &CompileError{Field: field + ".key", Message: "key must not be empty", Pos: colVal.Pos()}
		}
		if col.Header, err = lookupString(colVal, "header"); err != nil {
			return nil, err
		}
		sortable, err := lookupBool(colVal, "sortable")
		if err != nil {
			return nil, err
		}
		col.Sortable = sortable != nil && *sortable

		align, err := lookupString(colVal, "align")
		if err != nil {
			return nil, err
		}
		if col.Align, err = column.ParseAlign(align); err != nil {
			return nil, &CompileError{Field: field + ".align", Message: err.Error(), Pos: colVal.Pos()}
		}

		if widthVal := colVal.LookupPath(cue.ParsePath("width")); widthVal.Exists() {
			width, err := widthVal.Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			if width < 0 {
				return nil, &CompileError{
					Field:   field + ".width",
					Message: fmt.Sprintf("width must not be negative, got %d", width),
					Pos:     widthVal.Pos(),
				}
			}
			col.Width = int(width)
		}

		render, err := lookupString(colVal, "render")
		if err != nil {
			return nil, err
		}
		if col.Render, err = column.Preset(render); err != nil {
			return nil, &CompileError{Field: field + ".render", Message: err.Error(), Pos: colVal.Pos()}
		}
		if render != "" {
			renderers[col.Key] = render
		}

		cols = append(cols, col)
	}

	if len(cols) == 0 {
		return nil, &CompileError{
			Field:   "columns",
			Message: "at least one column is required",
			Pos:     colsVal.Pos(),
		}
	}
	return cols, nil
}

// lookupString returns the string at path, or "" when absent.
func lookupString(v cue.Value, path string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// lookupBool returns the bool at path, or nil when absent.
func lookupBool(v cue.Value, path string) (*bool, error) {
	fv := v.LookupPath(cue.ParsePath(path))
	if !fv.Exists() {
		return nil, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return &b, nil
}

func labelName(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	name := labels[len(labels)-1].String()
	if strings.HasPrefix(name, `"`) {
		if unquoted, err := strconv.Unquote(name); err == nil {
			return unquoted
		}
	}
	return name
}

// CompileError represents a layout error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{Field: "cue", Message: first.Error()}
}
