package prospect

import (
	"strings"
	"time"

	"github.com/sells-group/prospect-cli/pkg/attom"
)

// dateLayouts are the formats the provider has been observed returning.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
}

// ParseDate parses a provider date string, trying each known layout in turn.
// Implausible values (before 1900) are rejected along with unparseable ones;
// callers treat a failed parse as an absent date, never an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < 1900 {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// OwnershipDate derives when the current owner acquired the property: the
// sale date when one parses, otherwise the mortgage origination date (direct,
// then FirstConcurrent). Origination is a good proxy for purchase date on
// purchase-money loans.
func OwnershipDate(p *attom.Property) (time.Time, bool) {
	if s, ok := SaleDateString(p); ok {
		if t, ok := ParseDate(s); ok {
			return t, true
		}
	}
	if m := p.Mortgage; m != nil {
		if m.Date != nil {
			if t, ok := ParseDate(*m.Date); ok {
				return t, true
			}
		}
		if m.FirstConcurrent != nil && m.FirstConcurrent.Date != nil {
			if t, ok := ParseDate(*m.FirstConcurrent.Date); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
