// Package prospect implements the property-intelligence engine: it reconciles
// the per-endpoint views of a property record into one record, classifies
// properties into prospecting categories, and groups investor portfolios.
package prospect

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

// The accessors below normalize access to facts whose location in the record
// tree varies by source endpoint. Each encodes an explicit priority order over
// the known shapes and stops at the first populated candidate. All are total:
// they return ok=false for missing data instead of a zero that could be
// mistaken for a real value.

// PropertyValue returns the best available value estimate, in priority order:
// AVM value, market total, appraised total, assessed total. Only positive
// values count; tiers are never averaged.
func PropertyValue(p *attom.Property) (float64, bool) {
	if p.AVM != nil && p.AVM.Amount != nil {
		if v, ok := positive(p.AVM.Amount.Value); ok {
			return v, true
		}
	}
	if p.Assessment != nil {
		if p.Assessment.Market != nil {
			if v, ok := positive(p.Assessment.Market.MktTtlValue); ok {
				return v, true
			}
		}
		if p.Assessment.Appraised != nil {
			if v, ok := positive(p.Assessment.Appraised.ApprTtlValue); ok {
				return v, true
			}
		}
		if p.Assessment.Assessed != nil {
			if v, ok := positive(p.Assessment.Assessed.AssdTtlValue); ok {
				return v, true
			}
		}
	}
	return 0, false
}

// SaleAmount returns the sale amount, checking the nested sale.amount fields
// before the flattened sale-level aliases.
func SaleAmount(p *attom.Property) (float64, bool) {
	if p.Sale == nil {
		return 0, false
	}
	if a := p.Sale.Amount; a != nil {
		for _, v := range []*float64{a.SaleAmt, a.SalePrice} {
			if v != nil {
				return *v, true
			}
		}
	}
	for _, v := range []*float64{p.Sale.SaleAmt, p.Sale.SalePrice} {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

// SaleDateString returns the raw sale/transaction date string, checking the
// nested fields (trans, rec, search date) before the flattened aliases.
func SaleDateString(p *attom.Property) (string, bool) {
	if p.Sale == nil {
		return "", false
	}
	var candidates []*string
	if a := p.Sale.Amount; a != nil {
		candidates = append(candidates, a.SaleTransDate, a.SaleRecDate, a.SaleSearchDate)
	}
	candidates = append(candidates, p.Sale.SaleTransDate, p.Sale.SaleRecDate, p.Sale.SaleSearchDate)
	for _, s := range candidates {
		if s != nil && strings.TrimSpace(*s) != "" {
			return *s, true
		}
	}
	return "", false
}

// MortgageAmount returns the outstanding mortgage balance, checking the direct
// mortgage amount, then the FirstConcurrent nesting, then SecondConcurrent.
func MortgageAmount(p *attom.Property) (float64, bool) {
	m := p.Mortgage
	if m == nil {
		return 0, false
	}
	if v, ok := positive(m.Amount); ok {
		return v, true
	}
	if m.FirstConcurrent != nil {
		if v, ok := positive(m.FirstConcurrent.Amount); ok {
			return v, true
		}
	}
	if m.SecondConcurrent != nil {
		if v, ok := positive(m.SecondConcurrent.Amount); ok {
			return v, true
		}
	}
	return 0, false
}

// MortgageLender returns the lender name from the direct mortgage, then the
// concurrent nestings.
func MortgageLender(p *attom.Property) (string, bool) {
	m := p.Mortgage
	if m == nil {
		return "", false
	}
	if m.Lender != nil {
		if s, ok := nonEmpty(m.Lender.FullName); ok {
			return s, true
		}
	}
	if m.FirstConcurrent != nil && m.FirstConcurrent.Lender != nil {
		if s, ok := nonEmpty(m.FirstConcurrent.Lender.FullName); ok {
			return s, true
		}
	}
	if m.SecondConcurrent != nil && m.SecondConcurrent.Lender != nil {
		if s, ok := nonEmpty(m.SecondConcurrent.Lender.FullName); ok {
			return s, true
		}
	}
	return "", false
}

// OwnerName resolves the owner display name. The fallback chain is fixed:
// owner-of-record names, then mortgage borrower names, then the borrower
// vesting string. The returned source tells the caller which link resolved so
// provenance can be surfaced.
func OwnerName(p *attom.Property) (string, model.NameSource) {
	if o := p.Owner; o != nil {
		for _, n := range []*attom.OwnerName{o.Owner1, o.Owner2, o.Owner3, o.Owner4} {
			if n != nil {
				if s, ok := nonEmpty(n.FullName); ok {
					return s, model.NameSourceOwner
				}
			}
		}
	}
	if m := p.Mortgage; m != nil {
		for _, n := range []*attom.OwnerName{m.Borrower1, m.Borrower2} {
			if n != nil {
				if s, ok := nonEmpty(n.FullName); ok {
					return s, model.NameSourceBorrower
				}
			}
		}
		if s, ok := nonEmpty(m.BorrowerVesting); ok {
			return s, model.NameSourceVesting
		}
	}
	return "", model.NameSourceUnknown
}

// OwnerMailingAddress returns the owner mailing address, assembling one from
// the mortgage borrower mailing fields when the owner branch has none.
func OwnerMailingAddress(p *attom.Property) (string, bool) {
	if p.Owner != nil {
		if s, ok := nonEmpty(p.Owner.MailingAddressOneLine); ok {
			return s, true
		}
	}
	if m := p.Mortgage; m != nil {
		parts := make([]string, 0, 4)
		for _, f := range []*string{m.BorrowerMailFullStreetAddress, m.BorrowerMailCity, m.BorrowerMailState, m.BorrowerMailZip} {
			if s, ok := nonEmpty(f); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", "), true
		}
	}
	return "", false
}

// HasContactInfo reports whether the record carries any way to reach the
// owner: a resolvable name or a mailing address from either source.
func HasContactInfo(p *attom.Property) bool {
	if _, src := OwnerName(p); src != model.NameSourceUnknown {
		return true
	}
	_, ok := OwnerMailingAddress(p)
	return ok
}

// SitusAddress returns the property's own one-line address, falling back to
// joining line1/line2.
func SitusAddress(p *attom.Property) (string, bool) {
	if p.Address == nil {
		return "", false
	}
	if s, ok := nonEmpty(p.Address.OneLine); ok {
		return s, true
	}
	parts := make([]string, 0, 2)
	for _, f := range []*string{p.Address.Line1, p.Address.Line2} {
		if s, ok := nonEmpty(f); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", "), true
	}
	return "", false
}

// YearBuilt returns the year built from the building summary, then the
// record summary.
func YearBuilt(p *attom.Property) (int, bool) {
	if p.Building != nil && p.Building.Summary != nil && p.Building.Summary.YearBuilt != nil {
		return *p.Building.Summary.YearBuilt, true
	}
	if p.Summary != nil && p.Summary.YearBuilt != nil {
		return *p.Summary.YearBuilt, true
	}
	return 0, false
}

// AnnualTax returns the annual assessed tax amount.
func AnnualTax(p *attom.Property) (float64, bool) {
	if p.Assessment != nil && p.Assessment.Tax != nil && p.Assessment.Tax.TaxAmt != nil {
		return *p.Assessment.Tax.TaxAmt, true
	}
	return 0, false
}

// IsCorporateOwner reports whether the owner is flagged as a corporate entity.
func IsCorporateOwner(p *attom.Property) bool {
	if p.Owner == nil {
		return false
	}
	s, ok := nonEmpty(p.Owner.CorporateIndicator)
	return ok && strings.EqualFold(s, "Y")
}

// positive dereferences v and reports whether it holds a value > 0.
func positive(v *float64) (float64, bool) {
	if v != nil && *v > 0 {
		return *v, true
	}
	return 0, false
}

// nonEmpty dereferences s and reports whether it holds a non-blank string.
func nonEmpty(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return "", false
	}
	return t, true
}
