package prospect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

// pointer helpers shared across the package tests
func sp(s string) *string   { return &s }
func fp(f float64) *float64 { return &f }
func ip(i int) *int         { return &i }
func i64p(i int64) *int64   { return &i }

func TestPropertyValue_PriorityOrder(t *testing.T) {
	p := &attom.Property{
		AVM: &attom.AVM{Amount: &attom.AVMAmount{Value: fp(500000)}},
		Assessment: &attom.Assessment{
			Market:    &attom.Market{MktTtlValue: fp(480000)},
			Appraised: &attom.Appraised{ApprTtlValue: fp(470000)},
			Assessed:  &attom.Assessed{AssdTtlValue: fp(420000)},
		},
	}

	v, ok := PropertyValue(p)
	assert.True(t, ok)
	assert.Equal(t, 500000.0, v)

	// Drop AVM: market total wins.
	p.AVM = nil
	v, _ = PropertyValue(p)
	assert.Equal(t, 480000.0, v)

	// Drop market: appraised wins.
	p.Assessment.Market = nil
	v, _ = PropertyValue(p)
	assert.Equal(t, 470000.0, v)

	// Drop appraised: assessed wins.
	p.Assessment.Appraised = nil
	v, _ = PropertyValue(p)
	assert.Equal(t, 420000.0, v)
}

func TestPropertyValue_ZeroAVMSkipped(t *testing.T) {
	// A zero AVM counts as absent; the next tier answers.
	p := &attom.Property{
		AVM: &attom.AVM{Amount: &attom.AVMAmount{Value: fp(0)}},
		Assessment: &attom.Assessment{
			Market: &attom.Market{MktTtlValue: fp(310000)},
		},
	}
	v, ok := PropertyValue(p)
	assert.True(t, ok)
	assert.Equal(t, 310000.0, v)
}

func TestPropertyValue_Missing(t *testing.T) {
	_, ok := PropertyValue(&attom.Property{})
	assert.False(t, ok)
}

func TestSaleAmount_NestedBeforeFlat(t *testing.T) {
	p := &attom.Property{
		Sale: &attom.Sale{
			Amount:  &attom.SaleAmount{SaleAmt: fp(450000)},
			SaleAmt: fp(999999),
		},
	}
	v, ok := SaleAmount(p)
	assert.True(t, ok)
	assert.Equal(t, 450000.0, v)
}

func TestSaleAmount_FlatFallback(t *testing.T) {
	p := &attom.Property{Sale: &attom.Sale{SalePrice: fp(325000)}}
	v, ok := SaleAmount(p)
	assert.True(t, ok)
	assert.Equal(t, 325000.0, v)
}

func TestSaleDateString_Priority(t *testing.T) {
	p := &attom.Property{
		Sale: &attom.Sale{
			Amount: &attom.SaleAmount{
				SaleRecDate:    sp("2015-07-01"),
				SaleSearchDate: sp("2015-08-01"),
			},
			SaleTransDate: sp("2015-06-01"),
		},
	}
	// Nested rec date beats the flattened trans date.
	s, ok := SaleDateString(p)
	assert.True(t, ok)
	assert.Equal(t, "2015-07-01", s)
}

func TestMortgageAmount_ConcurrentFallback(t *testing.T) {
	p := &attom.Property{
		Mortgage: &attom.Mortgage{
			FirstConcurrent: &attom.ConcurrentLoan{Amount: fp(280000)},
		},
	}
	v, ok := MortgageAmount(p)
	assert.True(t, ok)
	assert.Equal(t, 280000.0, v)

	p.Mortgage.FirstConcurrent = nil
	p.Mortgage.SecondConcurrent = &attom.ConcurrentLoan{Amount: fp(50000)}
	v, _ = MortgageAmount(p)
	assert.Equal(t, 50000.0, v)
}

func TestMortgageAmount_DirectWins(t *testing.T) {
	p := &attom.Property{
		Mortgage: &attom.Mortgage{
			Amount:          fp(300000),
			FirstConcurrent: &attom.ConcurrentLoan{Amount: fp(280000)},
		},
	}
	v, _ := MortgageAmount(p)
	assert.Equal(t, 300000.0, v)
}

func TestOwnerName_FallbackChain(t *testing.T) {
	p := &attom.Property{
		Owner: &attom.Owner{
			Owner1: &attom.OwnerName{FullName: sp("JANE SMITH")},
		},
		Mortgage: &attom.Mortgage{
			Borrower1:       &attom.OwnerName{FullName: sp("J SMITH")},
			BorrowerVesting: sp("SMITH FAMILY TRUST"),
		},
	}

	name, src := OwnerName(p)
	assert.Equal(t, "JANE SMITH", name)
	assert.Equal(t, model.NameSourceOwner, src)

	p.Owner = nil
	name, src = OwnerName(p)
	assert.Equal(t, "J SMITH", name)
	assert.Equal(t, model.NameSourceBorrower, src)

	p.Mortgage.Borrower1 = nil
	name, src = OwnerName(p)
	assert.Equal(t, "SMITH FAMILY TRUST", name)
	assert.Equal(t, model.NameSourceVesting, src)

	p.Mortgage = nil
	name, src = OwnerName(p)
	assert.Empty(t, name)
	assert.Equal(t, model.NameSourceUnknown, src)
}

func TestOwnerName_SkipsBlankEntries(t *testing.T) {
	p := &attom.Property{
		Owner: &attom.Owner{
			Owner1: &attom.OwnerName{FullName: sp("  ")},
			Owner2: &attom.OwnerName{FullName: sp("BOB JONES")},
		},
	}
	name, src := OwnerName(p)
	assert.Equal(t, "BOB JONES", name)
	assert.Equal(t, model.NameSourceOwner, src)
}

func TestOwnerMailingAddress_BorrowerAssembly(t *testing.T) {
	p := &attom.Property{
		Mortgage: &attom.Mortgage{
			BorrowerMailFullStreetAddress: sp("500 OAK AVE"),
			BorrowerMailCity:              sp("DALLAS"),
			BorrowerMailState:             sp("TX"),
			BorrowerMailZip:               sp("75201"),
		},
	}
	mail, ok := OwnerMailingAddress(p)
	assert.True(t, ok)
	assert.Equal(t, "500 OAK AVE, DALLAS, TX, 75201", mail)
}

func TestOwnerMailingAddress_OwnerBranchWins(t *testing.T) {
	p := &attom.Property{
		Owner: &attom.Owner{MailingAddressOneLine: sp("PO BOX 12, AUSTIN, TX")},
		Mortgage: &attom.Mortgage{
			BorrowerMailFullStreetAddress: sp("500 OAK AVE"),
		},
	}
	mail, _ := OwnerMailingAddress(p)
	assert.Equal(t, "PO BOX 12, AUSTIN, TX", mail)
}

func TestSitusAddress_LineFallback(t *testing.T) {
	p := &attom.Property{
		Address: &attom.Address{
			Line1: sp("123 MAIN ST"),
			Line2: sp("AUSTIN, TX 78704"),
		},
	}
	addr, ok := SitusAddress(p)
	assert.True(t, ok)
	assert.Equal(t, "123 MAIN ST, AUSTIN, TX 78704", addr)
}

func TestHasContactInfo(t *testing.T) {
	assert.False(t, HasContactInfo(&attom.Property{}))
	assert.True(t, HasContactInfo(&attom.Property{
		Owner: &attom.Owner{Owner1: &attom.OwnerName{FullName: sp("A B")}},
	}))
	assert.True(t, HasContactInfo(&attom.Property{
		Owner: &attom.Owner{MailingAddressOneLine: sp("PO BOX 9")},
	}))
}

func TestYearBuilt_BuildingBeforeSummary(t *testing.T) {
	p := &attom.Property{
		Building: &attom.Building{Summary: &attom.BuildingSummary{YearBuilt: ip(1987)}},
		Summary:  &attom.Summary{YearBuilt: ip(1990)},
	}
	y, ok := YearBuilt(p)
	assert.True(t, ok)
	assert.Equal(t, 1987, y)

	p.Building = nil
	y, _ = YearBuilt(p)
	assert.Equal(t, 1990, y)
}

func TestIsCorporateOwner(t *testing.T) {
	assert.True(t, IsCorporateOwner(&attom.Property{
		Owner: &attom.Owner{CorporateIndicator: sp("Y")},
	}))
	assert.False(t, IsCorporateOwner(&attom.Property{
		Owner: &attom.Owner{CorporateIndicator: sp("N")},
	}))
	assert.False(t, IsCorporateOwner(&attom.Property{}))
}
