package table

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/datatable/internal/row"
)

// Filter returns the rows where any field's text contains search,
// ignoring case. Every field of the row is scanned, not only displayed
// columns. An empty search returns rows itself.
func Filter(rows []row.Row, search string) []row.Row {
	if search == "" {
		return rows
	}

	// Casers carry state; one per call keeps Filter safe for concurrent use.
	lower := cases.Lower(language.Und)
	needle := foldText(lower, search)

	out := make([]row.Row, 0, len(rows))
	for _, r := range rows {
		if rowContains(lower, r, needle) {
			out = append(out, r)
		}
	}
	return out
}

func rowContains(lower cases.Caser, r row.Row, needle string) bool {
	for _, v := range r {
		if strings.Contains(foldText(lower, row.Text(v)), needle) {
			return true
		}
	}
	return false
}

// foldText NFC-normalises then lower-cases s, so composed and decomposed
// accents compare equal.
func foldText(lower cases.Caser, s string) string {
	return lower.String(norm.NFC.String(s))
}
