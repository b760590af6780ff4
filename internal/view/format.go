package view

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var frenchMonths = [...]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Jui", "Jui", "Aoû", "Sep", "Oct", "Nov", "Déc",
}

// ISODate normalises a bill date to YYYY-MM-DD. Anything that does not parse is returned unchanged.
func ISODate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}

	return t.Format(time.DateOnly)
}

// FrenchDate formats a bill date the way the French UI shows it, e.g. "4 Avr. 04".
func FrenchDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}

	return fmt.Sprintf("%d %s. %02d", t.Day(), frenchMonths[t.Month()-1], t.Year()%100)
}

// FormatAmount renders an amount in euros with French number formatting.
func FormatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(language.French)

	if d.IsInteger() {
		return p.Sprintf("%d €", d.IntPart())
	}

	return p.Sprintf("%.2f €", d.InexactFloat64())
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
