package bill

import (
	"slices"
	"strings"
	"time"
)

// SortByDateDesc orders bills most recent first, keeping the original order on ties.
//
// Dates are compared as YYYY-MM-DD strings. A date that does not parse is compared
// by its raw text, so callers must send YYYY-MM-DD to get chronological order.
func SortByDateDesc(bills []*Bill) {
	slices.SortStableFunc(bills, func(a, b *Bill) int {
		return strings.Compare(dateKey(b.Date), dateKey(a.Date))
	})
}

func dateKey(s string) string {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format(time.DateOnly)
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.DateOnly)
	}

	return s
}
