package prospect

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rotisserie/eris"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

// PropertyAPI is the slice of the provider client the engine consumes.
// *attom.Client satisfies it; tests inject fakes.
type PropertyAPI interface {
	Search(ctx context.Context, endpoint attom.Endpoint, params attom.SearchParams) (*attom.SearchResult, error)
}

const defaultPageSize = 50

// defaultPageBudgets are the per-mode page limits. Investor grouping needs
// the most data to find multi-property owners; distress needs broad coverage;
// the rest work with a smaller working set.
var defaultPageBudgets = map[model.Mode]int{
	model.ModeInvestor: 6,
	model.ModeDistress: 5,
	model.ModeJustSold: 4,
	model.ModeAbsentee: 4,
	model.ModeEquity:   4,
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithPageSize overrides the provider page size.
func WithPageSize(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithPageBudget overrides the page budget for one mode.
func WithPageBudget(mode model.Mode, pages int) ScannerOption {
	return func(s *Scanner) {
		if pages > 0 {
			s.budgets[mode] = pages
		}
	}
}

// WithNow fixes the clock used for tenure and distress calculations.
func WithNow(now func() time.Time) ScannerOption {
	return func(s *Scanner) { s.now = now }
}

// Scanner accumulates a multi-page working set from the provider and runs the
// per-mode classification over it. A Scanner holds no per-search state; every
// search starts from an empty working set.
type Scanner struct {
	api      PropertyAPI
	pageSize int
	budgets  map[model.Mode]int
	now      func() time.Time
}

// NewScanner creates a Scanner over the given provider API.
func NewScanner(api PropertyAPI, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		api:      api,
		pageSize: defaultPageSize,
		budgets:  make(map[model.Mode]int, len(defaultPageBudgets)),
		now:      time.Now,
	}
	for mode, pages := range defaultPageBudgets {
		s.budgets[mode] = pages
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// pageBudget returns the page budget for the mode.
func (s *Scanner) pageBudget(mode model.Mode) int {
	if pages, ok := s.budgets[mode]; ok {
		return pages
	}
	return 4
}

// searchParams translates caller parameters into provider query parameters.
func (s *Scanner) searchParams(mode model.Mode, p model.ScanParams, page int) attom.SearchParams {
	params := attom.SearchParams{
		PostalCode:   p.PostalCode,
		PropertyType: p.PropertyType,
		Page:         page,
		PageSize:     s.pageSize,
	}
	if p.Latitude != 0 || p.Longitude != 0 {
		params.Latitude = p.Latitude
		params.Longitude = p.Longitude
		params.Radius = p.RadiusMiles
	}
	if mode == model.ModeJustSold {
		params.StartSaleSearchDate = p.StartSaleDate
		params.EndSaleSearchDate = p.EndSaleDate
	}
	return params
}

// baseEndpoint returns the endpoint carrying the mode's primary record view.
func baseEndpoint(mode model.Mode) attom.Endpoint {
	if mode == model.ModeJustSold {
		return attom.EndpointSaleSnapshot
	}
	return attom.EndpointExpandedProfile
}

// fetchSupplement fetches the supplemental view for one page. For just-sold
// scans the sale snapshot is supplemented with the expanded profile
// (assessment values, building detail, owner data); every other mode
// supplements the expanded profile with the mortgage+owner detail view,
// falling back to owner detail alone. Failures yield an empty page — a
// supplement must never cost us the base page.
func (s *Scanner) fetchSupplement(ctx context.Context, mode model.Mode, params attom.SearchParams) []attom.Property {
	var endpoints []attom.Endpoint
	if mode == model.ModeJustSold {
		endpoints = []attom.Endpoint{attom.EndpointExpandedProfile}
	} else {
		endpoints = []attom.Endpoint{attom.EndpointDetailMortgageOwner, attom.EndpointDetailOwner}
	}

	for _, ep := range endpoints {
		result, err := s.api.Search(ctx, ep, params)
		if err != nil {
			zap.L().Warn("scan: supplemental fetch failed",
				zap.String("endpoint", string(ep)),
				zap.Int("page", params.Page),
				zap.Error(err),
			)
			continue
		}
		return result.Property
	}
	return nil
}

// Scan drives repeated base+supplement page fetches until the mode's page
// budget is exhausted or the provider runs out of data, and returns the merged
// working set. Cross-record classification needs the full set, so pages are
// accumulated before any filtering happens.
//
// The base fetch and its supplemental fetch are issued concurrently per page;
// pages themselves are sequential to keep provider request volume bounded. A
// base fetch failure on the first page aborts the scan; on a later page it
// ends the scan early with the pages already accumulated.
func (s *Scanner) Scan(ctx context.Context, mode model.Mode, p model.ScanParams) ([]attom.Property, int, error) {
	var working []attom.Property
	pagesFetched := 0

	budget := s.pageBudget(mode)
	for page := 1; page <= budget; page++ {
		params := s.searchParams(mode, p, page)

		var basePage, suppPage []attom.Property
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			result, err := s.api.Search(gctx, baseEndpoint(mode), params)
			if err != nil {
				return eris.Wrapf(err, "scan: page %d", page)
			}
			basePage = result.Property
			return nil
		})
		g.Go(func() error {
			suppPage = s.fetchSupplement(gctx, mode, params)
			return nil
		})

		if err := g.Wait(); err != nil {
			if page == 1 {
				return nil, 0, err
			}
			zap.L().Warn("scan: page fetch failed, classifying partial working set",
				zap.Int("page", page),
				zap.Int("accumulated", len(working)),
				zap.Error(err),
			)
			break
		}

		if len(basePage) == 0 {
			break
		}
		pagesFetched++

		merged := basePage
		if len(suppPage) > 0 {
			merged = MergeSupplements(basePage, [][]attom.Property{suppPage})
		}
		working = append(working, merged...)

		// Fewer records than a full page means the provider is out of data.
		if len(basePage) < s.pageSize {
			break
		}
	}

	return working, pagesFetched, nil
}
