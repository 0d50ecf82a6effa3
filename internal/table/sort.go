package table

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/roach88/datatable/internal/row"
)

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// ParseDirection accepts "asc" or "desc" (empty means asc).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("unknown sort direction %q: must be asc or desc", s)
	}
}

// DefaultLocale is the collation locale used when none is configured.
var DefaultLocale = language.English

// Sort returns a stably sorted copy of rows ordered by key.
//
// Pairs where both values are numeric compare numerically. Every other pair
// compares the lower-cased text of both values with a locale-aware
// collator; missing values compare as "". Desc negates the comparison
// result, so tied rows keep their input order in both directions.
//
// A column holding both numbers and text can yield an order that is not
// transitive across the whole sort; the result is still deterministic.
// An empty key returns rows unchanged.
func Sort(rows []row.Row, key string, dir Direction, locale language.Tag) []row.Row {
	if key == "" {
		return rows
	}

	cmp := newComparator(key, locale)
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b row.Row) int {
		c := cmp.compare(a, b)
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

// comparator is not safe for concurrent use; Sort builds one per call.
type comparator struct {
	key      string
	collator *collate.Collator
	lower    cases.Caser
}

func newComparator(key string, locale language.Tag) *comparator {
	if locale == language.Und {
		locale = DefaultLocale
	}
	return &comparator{
		key:      key,
		collator: collate.New(locale),
		lower:    cases.Lower(locale),
	}
}

func (c *comparator) compare(a, b row.Row) int {
	av, _ := a.Get(c.key)
	bv, _ := b.Get(c.key)

	if ai, ok := av.(row.Int); ok {
		if bi, ok := bv.(row.Int); ok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}

	an, aNum := row.IsNumeric(av)
	bn, bNum := row.IsNumeric(bv)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}

	as := c.lower.String(row.Text(av))
	bs := c.lower.String(row.Text(bv))
	return c.collator.CompareString(as, bs)
}
