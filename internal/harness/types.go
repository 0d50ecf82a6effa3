package harness

import (
	"fmt"
	"strings"
)

// TraceEvent records one executed step and the table state it produced.
type TraceEvent struct {
	Seq        int64    `json:"seq"`
	Op         string   `json:"op"`
	Arg        string   `json:"arg,omitempty"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	TotalItems int      `json:"total_items"`
	Visible    []string `json:"visible"`
	Selected   []string `json:"selected"`
	SortKey    string   `json:"sort_key,omitempty"`
	SortDir    string   `json:"sort_dir,omitempty"`
	Notified   int      `json:"notified"`
	Error      string   `json:"error,omitempty"`
}

// String renders the event as one golden-trace line.
func (e TraceEvent) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", e.Seq, e.Op)
	if e.Arg != "" {
		fmt.Fprintf(&b, " %s", e.Arg)
	}
	fmt.Fprintf(&b, " -> page %d/%d items %d visible [%s] selected [%s]",
		e.Page, e.TotalPages, e.TotalItems,
		strings.Join(e.Visible, " "), strings.Join(e.Selected, " "))
	if e.SortKey != "" {
		fmt.Fprintf(&b, " sort %s:%s", e.SortKey, e.SortDir)
	}
	fmt.Fprintf(&b, " notified %d", e.Notified)
	if e.Error != "" {
		fmt.Fprintf(&b, " error %s", e.Error)
	}
	return b.String()
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: true if every expect block matched.
	Pass bool `json:"pass"`

	// TableID is the fixed table id the scenario ran with.
	TableID string `json:"table_id"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an expectation mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// TraceText renders the trace for golden comparison: a header line with
// the scenario name and table id, then one line per step.
func (r *Result) TraceText(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario %s table %s\n", name, r.TableID)
	for _, e := range r.Trace {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
