package prospect

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

// SearchRequest is one prospecting search.
type SearchRequest struct {
	Mode   model.Mode       `json:"mode"`
	Params model.ScanParams `json:"params"`
}

// SearchResult is the engine's answer: a flat sorted record list for most
// modes, investor groups for portfolio mode, plus coverage diagnostics so the
// caller can judge result quality.
type SearchResult struct {
	Mode     model.Mode            `json:"mode"`
	Records  []attom.Property      `json:"records,omitempty"`
	Groups   []model.InvestorGroup `json:"groups,omitempty"`
	Coverage model.Coverage        `json:"coverage"`
	Summary  string                `json:"summary"`
}

// Search runs one prospecting search end to end: multi-page scan, coverage
// accounting, then the mode's classification over the full working set.
func (s *Scanner) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if !req.Mode.Valid() {
		return nil, eris.Errorf("search: unknown mode %q", req.Mode)
	}
	if req.Params.PostalCode == "" && req.Params.Latitude == 0 && req.Params.Longitude == 0 {
		return nil, eris.New("search: postal code or coordinates required")
	}

	working, pages, err := s.Scan(ctx, req.Mode, req.Params)
	if err != nil {
		return nil, err
	}

	cov := coverageOf(working)
	cov.Pages = pages

	res := &SearchResult{
		Mode:     req.Mode,
		Coverage: cov,
	}

	now := s.now()
	switch req.Mode {
	case model.ModeAbsentee:
		// Absentee status is useless without knowing who the owner is.
		for _, p := range working {
			if !IsAbsentee(&p) {
				continue
			}
			if _, src := OwnerName(&p); src == model.NameSourceUnknown {
				continue
			}
			res.Records = append(res.Records, p)
		}
	case model.ModeDistress:
		res.Records = FilterDistressed(working, now)
	case model.ModeEquity:
		res.Records = FilterEquity(working, EquityParams{
			MinYearsOwned: req.Params.MinYearsOwned,
			MinValue:      req.Params.MinValue,
		}, now)
	case model.ModeJustSold:
		// In non-disclosure states sale prices are not public; filtering to
		// disclosed-only would drop everything, so all sales are returned and
		// the summary flags the gap.
		res.Records = working
	case model.ModeInvestor:
		res.Groups = GroupInvestors(working)
	}

	res.Summary = summarize(req.Mode, cov, len(res.Records), len(res.Groups))
	return res, nil
}

// coverageOf counts which facts the provider actually populated across the
// working set.
func coverageOf(records []attom.Property) model.Coverage {
	cov := model.Coverage{Scanned: len(records)}
	for i := range records {
		p := &records[i]
		if _, src := OwnerName(p); src != model.NameSourceUnknown {
			cov.WithOwner++
		}
		if _, ok := OwnerMailingAddress(p); ok {
			cov.WithMailing++
		}
		if _, ok := SaleAmount(p); ok {
			cov.WithSaleAmt++
		}
		if _, ok := SaleDateString(p); ok {
			cov.WithSaleDate++
		}
		if _, ok := MortgageAmount(p); ok {
			cov.WithMortgage++
		}
		if p.AVM != nil && p.AVM.Amount != nil && p.AVM.Amount.Value != nil {
			cov.WithAVM++
		}
		if _, ok := PropertyValue(p); ok {
			cov.WithValue++
		}
		if IsAbsentee(p) {
			cov.Absentee++
		}
	}
	return cov
}

// summarize renders the coverage diagnostics as a one-line human summary.
func summarize(mode model.Mode, cov model.Coverage, records, groups int) string {
	pr := message.NewPrinter(language.AmericanEnglish)

	s := pr.Sprintf(
		"Scanned %d properties across %d pages — %d with owner names, %d with mailing addresses, "+
			"%d with sale amounts, %d with sale dates, %d with mortgage data, %d with AVM, "+
			"%d with property values, %d absentee.",
		cov.Scanned, cov.Pages, cov.WithOwner, cov.WithMailing,
		cov.WithSaleAmt, cov.WithSaleDate, cov.WithMortgage, cov.WithAVM,
		cov.WithValue, cov.Absentee,
	)

	switch mode {
	case model.ModeInvestor:
		s += pr.Sprintf(" Found %d portfolios.", groups)
	case model.ModeJustSold:
		s += pr.Sprintf(" Found %d recent sales.", records)
		if cov.Scanned > 0 && cov.WithSaleAmt == 0 {
			s += " No disclosed prices (non-disclosure state) — using assessed/market values."
		}
	default:
		s += pr.Sprintf(" Matched %d records.", records)
	}
	return s
}
