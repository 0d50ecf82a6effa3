package harness

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// checkExpect compares the set fields of want against ev and returns one
// message per mismatch.
func checkExpect(want Expect, ev TraceEvent, invoked []string) []string {
	var errs []string
	diff := func(field string, w, g any) {
		if d := cmp.Diff(w, g, cmpopts.EquateEmpty()); d != "" {
			errs = append(errs, fmt.Sprintf("%s mismatch (-want +got):\n%s", field, d))
		}
	}

	if want.Visible != nil {
		diff("visible", want.Visible, ev.Visible)
	}
	if want.Page != nil {
		diff("page", *want.Page, ev.Page)
	}
	if want.TotalPages != nil {
		diff("total_pages", *want.TotalPages, ev.TotalPages)
	}
	if want.TotalItems != nil {
		diff("total_items", *want.TotalItems, ev.TotalItems)
	}
	if want.Selected != nil {
		diff("selected", want.Selected, ev.Selected)
	}
	if want.AllSelected != nil {
		diff("all_selected", *want.AllSelected, allSelected(ev))
	}
	if want.SortKey != nil {
		diff("sort_key", *want.SortKey, ev.SortKey)
	}
	if want.SortDir != nil {
		diff("sort_dir", *want.SortDir, ev.SortDir)
	}
	if want.Notifications != nil {
		diff("notifications", *want.Notifications, ev.Notified)
	}
	if want.Error != nil {
		diff("error", *want.Error, ev.Error)
	}
	if want.Invoked != nil {
		diff("invoked", want.Invoked, invoked)
	}
	return errs
}

// allSelected mirrors the header checkbox: the page is non-empty and every
// identified visible row is selected.
func allSelected(ev TraceEvent) bool {
	selected := make(map[string]bool, len(ev.Selected))
	for _, id := range ev.Selected {
		selected[id] = true
	}
	for _, id := range ev.Visible {
		if id != "-" && !selected[id] {
			return false
		}
	}
	return len(ev.Visible) > 0
}
