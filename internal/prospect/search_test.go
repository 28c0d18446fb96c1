package prospect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

func TestSearch_RejectsUnknownMode(t *testing.T) {
	s := NewScanner(newFakeAPI())
	_, err := s.Search(context.Background(), SearchRequest{
		Mode:   model.Mode("flipper"),
		Params: model.ScanParams{PostalCode: "78704"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestSearch_RequiresLocation(t *testing.T) {
	s := NewScanner(newFakeAPI())
	_, err := s.Search(context.Background(), SearchRequest{Mode: model.ModeAbsentee})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postal code or coordinates")
}

func absenteeProp(id int64, name string) attom.Property {
	p := attom.Property{
		Identifier: &attom.Identifier{AttomID: &id},
		Summary:    &attom.Summary{AbsenteeInd: sp("ABSENTEE OWNER")},
	}
	if name != "" {
		p.Owner = &attom.Owner{Owner1: &attom.OwnerName{FullName: sp(name)}}
	}
	return p
}

func TestSearch_AbsenteeRequiresResolvableName(t *testing.T) {
	occupiedID := int64(3)
	api := newFakeAPI()
	api.put(attom.EndpointExpandedProfile, 1,
		absenteeProp(1, "JANE INVESTOR"),
		absenteeProp(2, ""), // absentee but anonymous
		attom.Property{
			Identifier: &attom.Identifier{AttomID: &occupiedID},
			Summary:    &attom.Summary{AbsenteeInd: sp("OWNER OCCUPIED")},
			Owner:      &attom.Owner{Owner1: &attom.OwnerName{FullName: sp("HOME OWNER")}},
		},
	)
	api.put(attom.EndpointDetailMortgageOwner, 1)

	s := NewScanner(api, WithPageSize(50))
	res, err := s.Search(context.Background(), SearchRequest{
		Mode:   model.ModeAbsentee,
		Params: model.ScanParams{PostalCode: "78704"},
	})

	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(1), *res.Records[0].Identifier.AttomID)
	assert.Empty(t, res.Groups)
}

func TestSearch_InvestorProducesGroups(t *testing.T) {
	api := newFakeAPI()
	api.put(attom.EndpointExpandedProfile, 1,
		absenteeProp(1, "LLC HOLDINGS"),
		absenteeProp(2, "LLC HOLDINGS"),
	)
	api.put(attom.EndpointDetailMortgageOwner, 1)

	s := NewScanner(api, WithPageSize(50))
	res, err := s.Search(context.Background(), SearchRequest{
		Mode:   model.ModeInvestor,
		Params: model.ScanParams{PostalCode: "78704"},
	})

	require.NoError(t, err)
	assert.Empty(t, res.Records)
	require.Len(t, res.Groups, 1)
	assert.Len(t, res.Groups[0].Properties, 2)
	assert.Contains(t, res.Summary, "1 portfolios")
}

func TestSearch_JustSoldReturnsAllSales(t *testing.T) {
	api := newFakeAPI()
	api.put(attom.EndpointSaleSnapshot, 1, fullPage(100, 3)...)
	api.put(attom.EndpointExpandedProfile, 1)

	s := NewScanner(api, WithPageSize(50))
	res, err := s.Search(context.Background(), SearchRequest{
		Mode: model.ModeJustSold,
		Params: model.ScanParams{
			PostalCode:    "78704",
			StartSaleDate: "2026-05-01",
			EndSaleDate:   "2026-08-01",
		},
	})

	require.NoError(t, err)
	// Non-disclosure markets would otherwise return nothing, so undisclosed
	// sales stay in.
	assert.Len(t, res.Records, 3)
	assert.Contains(t, res.Summary, "3 recent sales")
	assert.Contains(t, res.Summary, "non-disclosure")
}

func TestSearch_JustSoldDisclosedPricesOmitNote(t *testing.T) {
	id := int64(9)
	api := newFakeAPI()
	api.put(attom.EndpointSaleSnapshot, 1, attom.Property{
		Identifier: &attom.Identifier{AttomID: &id},
		Sale:       &attom.Sale{Amount: &attom.SaleAmount{SaleAmt: fp(525000)}},
	})
	api.put(attom.EndpointExpandedProfile, 1)

	s := NewScanner(api, WithPageSize(50))
	res, err := s.Search(context.Background(), SearchRequest{
		Mode: model.ModeJustSold,
		Params: model.ScanParams{
			PostalCode:    "78704",
			StartSaleDate: "2026-05-01",
		},
	})

	require.NoError(t, err)
	assert.NotContains(t, res.Summary, "non-disclosure")
}

func TestSearch_EquityUsesFixedClock(t *testing.T) {
	id := int64(11)
	api := newFakeAPI()
	api.put(attom.EndpointExpandedProfile, 1, attom.Property{
		Identifier: &attom.Identifier{AttomID: &id},
		Sale: &attom.Sale{
			SaleSearchDate: sp("2012-03-15"),
			Amount:         &attom.SaleAmount{SaleAmt: fp(200000)},
		},
		AVM: &attom.AVM{Amount: &attom.AVMAmount{Value: fp(600000)}},
	})
	api.put(attom.EndpointDetailMortgageOwner, 1)

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := NewScanner(api, WithPageSize(50), WithNow(func() time.Time { return now }))
	res, err := s.Search(context.Background(), SearchRequest{
		Mode:   model.ModeEquity,
		Params: model.ScanParams{PostalCode: "78704", MinYearsOwned: 10},
	})

	require.NoError(t, err)
	assert.Len(t, res.Records, 1)

	// Same record fails a longer tenure requirement.
	res, err = s.Search(context.Background(), SearchRequest{
		Mode:   model.ModeEquity,
		Params: model.ScanParams{PostalCode: "78704", MinYearsOwned: 20},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestSearch_DistressDispatch(t *testing.T) {
	id := int64(21)
	api := newFakeAPI()
	api.put(attom.EndpointExpandedProfile, 1, attom.Property{
		Identifier: &attom.Identifier{AttomID: &id},
		Mortgage:   &attom.Mortgage{Amount: fp(400000)},
		AVM:        &attom.AVM{Amount: &attom.AVMAmount{Value: fp(350000)}},
	})
	api.put(attom.EndpointDetailMortgageOwner, 1)

	s := NewScanner(api, WithPageSize(50))
	res, err := s.Search(context.Background(), SearchRequest{
		Mode:   model.ModeDistress,
		Params: model.ScanParams{PostalCode: "78704"},
	})

	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(21), *res.Records[0].Identifier.AttomID)
}

func TestCoverageOf(t *testing.T) {
	records := []attom.Property{
		{
			Summary: &attom.Summary{AbsenteeInd: sp("ABSENTEE OWNER")},
			Owner:   &attom.Owner{Owner1: &attom.OwnerName{FullName: sp("JANE INVESTOR")}},
			Sale: &attom.Sale{
				SaleSearchDate: sp("2020-01-15"),
				Amount:         &attom.SaleAmount{SaleAmt: fp(300000)},
			},
			AVM: &attom.AVM{Amount: &attom.AVMAmount{Value: fp(450000)}},
		},
		{
			Mortgage: &attom.Mortgage{Amount: fp(250000)},
		},
		{},
	}

	cov := coverageOf(records)

	assert.Equal(t, 3, cov.Scanned)
	assert.Equal(t, 1, cov.WithOwner)
	assert.Equal(t, 1, cov.WithSaleAmt)
	assert.Equal(t, 1, cov.WithSaleDate)
	assert.Equal(t, 1, cov.WithMortgage)
	assert.Equal(t, 1, cov.WithAVM)
	assert.Equal(t, 1, cov.WithValue)
	assert.Equal(t, 1, cov.Absentee)
	assert.Zero(t, cov.WithMailing)
}

func TestSummarize_GroupsDigits(t *testing.T) {
	cov := model.Coverage{Scanned: 1200, Pages: 24}
	s := summarize(model.ModeAbsentee, cov, 340, 0)
	assert.Contains(t, s, "1,200 properties")
	assert.Contains(t, s, "Matched 340 records")
}
