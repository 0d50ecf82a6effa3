package testutil

import (
	"slices"
	"sync"

	"github.com/roach88/datatable/internal/row"
)

// Event kinds recorded by Recorder.
const (
	EventSelection = "selection"
	EventRowClick  = "row_click"
	EventAction    = "action"
)

// Event is one callback observed by a Recorder.
type Event struct {
	Seq    int64    // logical order, starting at 1
	Kind   string   // EventSelection, EventRowClick or EventAction
	Action string   // action label, for EventAction
	IDs    []row.ID // identities of the payload rows, payload order
	Rows   []row.Row
}

// Recorder captures table callbacks with a deterministic sequence number.
//
// Thread-safety: all methods are safe for concurrent use; the sequence is
// assigned under the mutex, so it reflects the order callbacks returned.
type Recorder struct {
	mu      sync.Mutex
	seq     int64
	idField string
	events  []Event
}

// NewRecorder creates a recorder that reads identities from idField.
// An empty idField means row.DefaultIDField.
func NewRecorder(idField string) *Recorder {
	if idField == "" {
		idField = row.DefaultIDField
	}
	return &Recorder{idField: idField}
}

// OnSelectionChange has the shape of table.WithOnSelectionChange.
func (r *Recorder) OnSelectionChange(selected []row.Row) {
	r.record(Event{Kind: EventSelection}, selected)
}

// OnRowClick has the shape of table.WithOnRowClick.
func (r *Recorder) OnRowClick(clicked row.Row) {
	r.record(Event{Kind: EventRowClick}, []row.Row{clicked})
}

// Action returns an OnClick handler that records invocations of label.
func (r *Recorder) Action(label string) func([]row.Row) {
	return func(selected []row.Row) {
		r.record(Event{Kind: EventAction, Action: label}, selected)
	}
}

func (r *Recorder) record(ev Event, rows []row.Row) {
	ev.Rows = slices.Clone(rows)
	ev.IDs = make([]row.ID, 0, len(rows))
	for _, rw := range rows {
		if id, ok := rw.IDOf(r.idField); ok {
			ev.IDs = append(ev.IDs, id)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ev.Seq = r.seq
	r.events = append(r.events, ev)
}

// Events returns a copy of every recorded event in sequence order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Count returns how many events of kind were recorded.
func (r *Recorder) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent event of kind.
func (r *Recorder) Last(kind string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Reset clears the recorded events and restarts the sequence at 1.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = 0
	r.events = nil
}
