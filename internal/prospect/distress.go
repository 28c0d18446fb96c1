package prospect

import (
	"sort"
	"time"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

const (
	// highLTVThresholdPct flags loans at or above this loan-to-value ratio.
	highLTVThresholdPct = 80.0
	// assessmentDropRatio flags records whose market value fell below this
	// fraction of the assessed total (tax-appeal pressure).
	assessmentDropRatio = 0.95
	// minimalAppreciationYears is the minimum tenure before stagnant value
	// counts as a distress signal.
	minimalAppreciationYears = 10.0
	// minimalAppreciationPct is the appreciation ceiling for the stagnant
	// value signal.
	minimalAppreciationPct = 20.0

	yearHours = 365.25 * 24
)

// DistressSignals computes the financial-distress signal bundle for one
// record. The signals are independent heuristics combined with OR rather than
// a weighted score: per-record data is too sparse for a unified confidence,
// and surfacing the components lets the consumer see which evidence applies.
// Signals that need a field the record lacks simply stay false.
func DistressSignals(p *attom.Property, now time.Time) model.DistressSignals {
	var sig model.DistressSignals

	value, hasValue := PropertyValue(p)
	if hasValue {
		sig.PropertyValue = &value
	}
	mortgage, hasMortgage := MortgageAmount(p)
	if hasMortgage {
		sig.MortgageAmount = &mortgage
	}

	if hasMortgage && hasValue && value > 0 {
		ltv := mortgage / value * 100
		sig.LTVPct = &ltv
		sig.IsUnderwater = mortgage > value
		sig.HighLTV = ltv >= highLTVThresholdPct
	}

	if p.Assessment != nil && p.Assessment.Market != nil && p.Assessment.Assessed != nil {
		if mkt, ok := positive(p.Assessment.Market.MktTtlValue); ok {
			if assd, ok := positive(p.Assessment.Assessed.AssdTtlValue); ok {
				sig.AssessmentDrop = mkt < assd*assessmentDropRatio
			}
		}
	}

	sale, hasSale := SaleAmount(p)
	if hasSale && sale > 0 && hasValue {
		sig.NegativeAppreciation = value < sale

		if owned, ok := OwnershipDate(p); ok {
			yearsOwned := now.Sub(owned).Hours() / yearHours
			if yearsOwned >= minimalAppreciationYears {
				appreciationPct := (value - sale) / sale * 100
				sig.MinimalAppreciation = appreciationPct < minimalAppreciationPct
			}
		}
	}

	sig.IsDistressed = sig.IsUnderwater || sig.HighLTV || sig.AssessmentDrop ||
		sig.NegativeAppreciation || sig.MinimalAppreciation

	return sig
}

// FilterDistressed returns the records with any distress signal, sorted for
// display: underwater properties first, then by LTV descending.
func FilterDistressed(records []attom.Property, now time.Time) []attom.Property {
	type scored struct {
		record     attom.Property
		underwater bool
		ltv        float64
	}

	matches := make([]scored, 0, len(records))
	for _, p := range records {
		sig := DistressSignals(&p, now)
		if !sig.IsDistressed {
			continue
		}
		s := scored{record: p, underwater: sig.IsUnderwater}
		if sig.LTVPct != nil {
			s.ltv = *sig.LTVPct
		}
		matches = append(matches, s)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].underwater != matches[j].underwater {
			return matches[i].underwater
		}
		return matches[i].ltv > matches[j].ltv
	})

	out := make([]attom.Property, len(matches))
	for i, m := range matches {
		out[i] = m.record
	}
	return out
}
