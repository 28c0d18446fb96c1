package prospect

import (
	"sort"
	"time"

	"github.com/sells-group/prospect-cli/pkg/attom"
)

// EquityParams tune the high-equity / likely-seller filter.
type EquityParams struct {
	MinYearsOwned int     // minimum tenure; defaults to 10
	MinValue      float64 // value floor; 0 disables
}

// PassesEquity reports whether a record qualifies as a high-equity long-tenure
// prospect. A record must have a known positive value at or above the floor,
// a derivable ownership date old enough to meet the tenure requirement, and —
// when a purchase price is known — strictly positive equity. Records with an
// unknown purchase price but qualifying tenure and value still pass, since no
// price comparison is possible.
func PassesEquity(p *attom.Property, params EquityParams, now time.Time) bool {
	minYears := params.MinYearsOwned
	if minYears <= 0 {
		minYears = 10
	}

	value, ok := PropertyValue(p)
	if !ok || value <= 0 {
		return false
	}
	if params.MinValue > 0 && value < params.MinValue {
		return false
	}

	owned, ok := OwnershipDate(p)
	if !ok {
		return false
	}
	if owned.After(now.AddDate(-minYears, 0, 0)) {
		return false
	}

	if price, ok := SaleAmount(p); ok && price > 0 && value <= price {
		return false
	}
	return true
}

// EstimatedEquity returns the record's estimated equity (current value minus
// purchase price). A missing purchase price counts as zero, so the estimate
// degrades to the property value.
func EstimatedEquity(p *attom.Property) (float64, bool) {
	value, ok := PropertyValue(p)
	if !ok {
		return 0, false
	}
	price, _ := SaleAmount(p)
	return value - price, true
}

// FilterEquity returns records passing the equity filter, sorted by estimated
// equity descending.
func FilterEquity(records []attom.Property, params EquityParams, now time.Time) []attom.Property {
	matches := make([]attom.Property, 0, len(records))
	for _, p := range records {
		if PassesEquity(&p, params, now) {
			matches = append(matches, p)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		ei, _ := EstimatedEquity(&matches[i])
		ej, _ := EstimatedEquity(&matches[j])
		return ei > ej
	})
	return matches
}
