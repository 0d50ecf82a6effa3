package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"golang.org/x/text/language"

	"github.com/roach88/datatable/internal/column"
	"github.com/roach88/datatable/internal/row"
	"github.com/roach88/datatable/internal/schema"
	"github.com/roach88/datatable/internal/table"
	"github.com/roach88/datatable/internal/testutil"
)

// DefaultTableID is used when a scenario does not set table_id.
const DefaultTableID = "test-table-default"

// Harness executes one scenario against one table.
type Harness struct {
	table   *table.Table
	rec     *testutil.Recorder
	idField string
	seq     int64
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh table with a fixed table id and a
// recorder for every callback, so traces are reproducible.
//
// Execution flow:
// 1. Load rows and columns (inline, from files, or inferred)
// 2. Build the table with the scenario options
// 3. Execute steps in order, recording one trace event per step
// 4. Compare each step's expect block against the event
//
// An error is returned only when the scenario cannot be executed at all;
// expectation mismatches are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.TableID = h.table.ID()

	for i, step := range scenario.Steps {
		ev, err := h.execute(step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Do, err)
		}
		result.Trace = append(result.Trace, ev)

		if step.Expect == nil {
			continue
		}
		for _, msg := range checkExpect(*step.Expect, ev, h.invoked()) {
			result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Do, msg))
		}
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"steps", len(scenario.Steps),
		"pass", result.Pass,
	)
	return result, nil
}

func newHarness(s *Scenario) (*Harness, error) {
	rows, err := loadRows(s)
	if err != nil {
		return nil, err
	}

	idField := s.Options.IDField
	var opts []table.Option
	var cols []column.Column

	switch {
	case s.Layout != "":
		layouts, err := schema.LoadFile(s.resolve(s.Layout))
		if err != nil {
			return nil, fmt.Errorf("failed to load layout: %w", err)
		}
		layout, err := schema.Select(layouts, s.LayoutName)
		if err != nil {
			return nil, err
		}
		cols = layout.Columns
		opts = append(opts, layout.Options()...)
		if idField == "" {
			idField = layout.IDField
		}
	case len(s.Columns) > 0:
		if cols, err = buildColumns(s.Columns); err != nil {
			return nil, err
		}
	}
	if idField == "" {
		idField = row.DefaultIDField
	}
	if cols == nil {
		cols = column.Infer(rows, idField)
	}

	scenarioOpts, err := buildOptions(s.Options)
	if err != nil {
		return nil, err
	}
	opts = append(opts, scenarioOpts...)

	tableID := s.TableID
	if tableID == "" {
		tableID = DefaultTableID
	}

	h := &Harness{
		rec:     testutil.NewRecorder(idField),
		idField: idField,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	actions := make([]table.Action, len(s.Actions))
	for i, label := range s.Actions {
		actions[i] = table.Action{Label: label, OnClick: h.rec.Action(label)}
	}

	opts = append(opts,
		table.WithIDField(idField),
		table.WithActions(actions...),
		table.WithOnSelectionChange(h.rec.OnSelectionChange),
		table.WithOnRowClick(h.rec.OnRowClick),
		table.WithIDGenerator(table.NewFixedGenerator(tableID)),
		table.WithLogger(h.logger),
	)

	if h.table, err = table.New(rows, cols, opts...); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return h, nil
}

func loadRows(s *Scenario) ([]row.Row, error) {
	if s.RowsFile != "" {
		rows, err := row.LoadFile(s.resolve(s.RowsFile))
		if err != nil {
			return nil, fmt.Errorf("failed to load rows: %w", err)
		}
		return rows, nil
	}
	rows := make([]row.Row, len(s.Rows))
	for i, m := range s.Rows {
		r, err := row.FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("rows[%d]: %w", i, err)
		}
		rows[i] = r
	}
	return rows, nil
}

func buildColumns(defs []ColumnDef) ([]column.Column, error) {
	cols := make([]column.Column, len(defs))
	for i, d := range defs {
		align, err := column.ParseAlign(d.Align)
		if err != nil {
			return nil, fmt.Errorf("columns[%d]: %w", i, err)
		}
		render, err := column.Preset(d.Render)
		if err != nil {
			return nil, fmt.Errorf("columns[%d]: %w", i, err)
		}
		cols[i] = column.Column{
			Key:      d.Key,
			Header:   d.Header,
			Sortable: d.Sortable,
			Align:    align,
			Width:    d.Width,
			Render:   render,
		}
	}
	return cols, nil
}

func buildOptions(o Options) ([]table.Option, error) {
	var opts []table.Option
	if o.PageSize != nil {
		opts = append(opts, table.WithPageSize(*o.PageSize))
	}
	if o.Searchable != nil {
		opts = append(opts, table.WithSearchable(*o.Searchable))
	}
	if o.Selectable != nil {
		opts = append(opts, table.WithSelectable(*o.Selectable))
	}
	if o.EmptyMessage != nil {
		opts = append(opts, table.WithEmptyMessage(*o.EmptyMessage))
	}
	if o.Locale != "" {
		tag, err := language.Parse(o.Locale)
		if err != nil {
			return nil, fmt.Errorf("options.locale: %w", err)
		}
		opts = append(opts, table.WithLocale(tag))
	}
	if o.Loading {
		opts = append(opts, table.WithLoading(true))
	}
	return opts, nil
}

// execute runs one step and snapshots the resulting view.
func (h *Harness) execute(step Step) (TraceEvent, error) {
	arg, opErr, err := h.apply(step)
	if err != nil {
		return TraceEvent{}, err
	}

	h.seq++
	ev := h.snapshot()
	ev.Seq = h.seq
	ev.Op = step.Do
	ev.Arg = arg
	if opErr != nil {
		var te *table.Error
		if !errors.As(opErr, &te) {
			return TraceEvent{}, opErr
		}
		ev.Error = string(te.Code)
	}
	return ev, nil
}

// apply performs the operation. opErr is a rejection reported by the table
// and becomes part of the trace; err means the step itself is malformed.
func (h *Harness) apply(step Step) (arg string, opErr, err error) {
	t := h.table
	switch step.Do {
	case OpSearch:
		text := fmt.Sprint(step.Value)
		t.Dispatch(table.SetSearch{Text: text})
		return strconv.Quote(text), nil, nil

	case OpSort:
		key := fmt.Sprint(step.Value)
		t.Dispatch(table.SortBy{Key: key})
		return key, nil, nil

	case OpClearSort:
		t.Dispatch(table.ClearSort{})
	case OpPage:
		n, err := intValue(step.Value)
		if err != nil {
			return "", nil, err
		}
		t.Dispatch(table.GoToPage{Page: n})
		return strconv.Itoa(n), nil, nil

	case OpNext:
		t.Dispatch(table.NextPage{})
	case OpPrev:
		t.Dispatch(table.PrevPage{})
	case OpFirst:
		t.Dispatch(table.FirstPage{})
	case OpLast:
		t.Dispatch(table.LastPage{})
	case OpClamp:
		t.Dispatch(table.ClampPage{})

	case OpToggle:
		id, err := idValue(step.Value)
		if err != nil {
			return "", nil, err
		}
		t.Dispatch(table.Toggle(id))
		return id.String(), nil, nil

	case OpToggleAll:
		checked := true
		if step.Value != nil {
			b, ok := step.Value.(bool)
			if !ok {
				return "", nil, fmt.Errorf("value must be a boolean, got %T", step.Value)
			}
			checked = b
		}
		t.Dispatch(table.ToggleAllVisible{Checked: checked})
		return strconv.FormatBool(checked), nil, nil

	case OpClearSelection:
		t.Dispatch(table.ClearSelection{})
	case OpReset:
		t.Dispatch(table.Reset{})

	case OpReplaceRows:
		rows, err := rowsValue(step.Value)
		if err != nil {
			return "", nil, err
		}
		t.ReplaceRows(rows)
		return fmt.Sprintf("%d rows", len(rows)), nil, nil

	case OpAction:
		label := fmt.Sprint(step.Value)
		return label, t.RunAction(label), nil

	case OpClick:
		n, err := intValue(step.Value)
		if err != nil {
			return "", nil, err
		}
		return strconv.Itoa(n), t.ClickRow(n), nil

	case OpLoading:
		on, ok := step.Value.(bool)
		if !ok {
			return "", nil, fmt.Errorf("value must be a boolean, got %T", step.Value)
		}
		t.SetLoading(on)
		return strconv.FormatBool(on), nil, nil

	default:
		return "", nil, fmt.Errorf("unknown operation %q", step.Do)
	}
	return "", nil, nil
}

func (h *Harness) snapshot() TraceEvent {
	v := h.table.View()
	ev := TraceEvent{
		Page:       v.Pagination.CurrentPage,
		TotalPages: v.Pagination.TotalPages,
		TotalItems: v.Pagination.TotalItems,
		Visible:    make([]string, len(v.Rows)),
		Selected:   make([]string, len(v.SelectedIDs)),
		Notified:   h.rec.Count(testutil.EventSelection),
	}
	for i, r := range v.Rows {
		ev.Visible[i] = "-"
		if id, ok := r.IDOf(h.idField); ok {
			ev.Visible[i] = id.String()
		}
	}
	for i, id := range v.SelectedIDs {
		ev.Selected[i] = id.String()
	}
	if v.SortKey != "" {
		ev.SortKey = v.SortKey
		ev.SortDir = v.SortDirection.String()
	}
	return ev
}

// invoked returns the labels of every action run so far, in order.
func (h *Harness) invoked() []string {
	labels := []string{}
	for _, ev := range h.rec.Events() {
		if ev.Kind == testutil.EventAction {
			labels = append(labels, ev.Action)
		}
	}
	return labels
}

func intValue(v any) (int, error) {
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("value must be an integer, got %T", v)
	}
	return n, nil
}

func idValue(v any) (row.ID, error) {
	switch id := v.(type) {
	case int:
		return row.IntID(int64(id)), nil
	case string:
		return row.StringID(id), nil
	default:
		return row.ID{}, fmt.Errorf("row identity must be an integer or string, got %T", v)
	}
}

func rowsValue(v any) ([]row.Row, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("value must be a list of rows, got %T", v)
	}
	rows := make([]row.Row, len(list))
	for i, item := range list {
		val, err := row.FromAny(item)
		if err != nil {
			return nil, fmt.Errorf("value[%d]: %w", i, err)
		}
		obj, ok := val.(row.Object)
		if !ok {
			return nil, fmt.Errorf("value[%d]: row must be an object", i)
		}
		rows[i] = row.Row(obj)
	}
	return rows, nil
}
