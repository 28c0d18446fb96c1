package model

import (
	"time"

	"github.com/sells-group/prospect-cli/pkg/attom"
)

// Mode selects a prospecting category.
type Mode string

const (
	ModeAbsentee Mode = "absentee" // non-owner-occupied properties
	ModeEquity   Mode = "equity"   // long-tenure, high-equity owners
	ModeDistress Mode = "distress" // financial-distress signals
	ModeJustSold Mode = "justsold" // recent sales for farming campaigns
	ModeInvestor Mode = "investor" // multi-property owner portfolios
)

// Valid reports whether m is a known prospecting mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeAbsentee, ModeEquity, ModeDistress, ModeJustSold, ModeInvestor:
		return true
	}
	return false
}

// NameSource records where a resolved owner display name came from, so a
// caller can show provenance ("via Mortgage Record").
type NameSource string

const (
	NameSourceOwner    NameSource = "owner_of_record"
	NameSourceBorrower NameSource = "mortgage_borrower"
	NameSourceVesting  NameSource = "borrower_vesting"
	NameSourceUnknown  NameSource = "unknown"
)

// DistressSignals is the per-record output of the financial-distress
// calculator. Derived on demand from mortgage/valuation/assessment/sale
// fields; never stored.
type DistressSignals struct {
	IsDistressed         bool     `json:"is_distressed"`
	IsUnderwater         bool     `json:"is_underwater"`
	HighLTV              bool     `json:"high_ltv"`
	LTVPct               *float64 `json:"ltv_pct,omitempty"`
	MortgageAmount       *float64 `json:"mortgage_amount,omitempty"`
	PropertyValue        *float64 `json:"property_value,omitempty"`
	AssessmentDrop       bool     `json:"assessment_drop"`
	NegativeAppreciation bool     `json:"negative_appreciation"`
	MinimalAppreciation  bool     `json:"minimal_appreciation"`
}

// InvestorGroup is an ownership portfolio: one owner identity (or shared
// non-local mailing address) and the properties attributed to it. Groups are
// built fresh per search from that search's working set and never persisted.
type InvestorGroup struct {
	OwnerName      string           `json:"owner_name"`
	MailingAddress string           `json:"mailing_address,omitempty"`
	IsCorporate    bool             `json:"is_corporate"`
	Properties     []attom.Property `json:"properties"`
	TotalTaxBurden float64          `json:"total_tax_burden"`
	TotalValue     float64          `json:"total_value"`
	OldestYear     *int             `json:"oldest_year_built,omitempty"`
	AvgYear        *int             `json:"avg_year_built,omitempty"`
}

// Coverage counts which fields the provider actually populated across a scan's
// working set. It backs the diagnostic summary shown to callers so they can
// judge result quality.
type Coverage struct {
	Scanned      int `json:"scanned"`
	Pages        int `json:"pages"`
	WithOwner    int `json:"with_owner"`
	WithMailing  int `json:"with_mailing"`
	WithSaleAmt  int `json:"with_sale_amount"`
	WithSaleDate int `json:"with_sale_date"`
	WithMortgage int `json:"with_mortgage"`
	WithAVM      int `json:"with_avm"`
	WithValue    int `json:"with_value"`
	Absentee     int `json:"absentee"`
}

// ScanStatus is the lifecycle state of a recorded scan run.
type ScanStatus string

const (
	ScanStatusRunning  ScanStatus = "running"
	ScanStatusComplete ScanStatus = "complete"
	ScanStatusFailed   ScanStatus = "failed"
)

// ScanParams are the caller-supplied search parameters recorded with a run.
type ScanParams struct {
	PostalCode    string  `json:"postal_code,omitempty"`
	Latitude      float64 `json:"latitude,omitempty"`
	Longitude     float64 `json:"longitude,omitempty"`
	RadiusMiles   float64 `json:"radius_miles,omitempty"`
	PropertyType  string  `json:"property_type,omitempty"`
	MinYearsOwned int     `json:"min_years_owned,omitempty"`
	MinValue      float64 `json:"min_value,omitempty"`
	StartSaleDate string  `json:"start_sale_date,omitempty"`
	EndSaleDate   string  `json:"end_sale_date,omitempty"`
}

// ScanRun is the persisted record of one prospecting search. The run row
// records outcome metadata only; result records live with the caller (and,
// on Postgres, optionally in the property snapshot table).
type ScanRun struct {
	ID          string     `json:"id"`
	Mode        Mode       `json:"mode"`
	Params      ScanParams `json:"params"`
	Status      ScanStatus `json:"status"`
	RecordCount int        `json:"record_count"`
	GroupCount  int        `json:"group_count"`
	Coverage    *Coverage  `json:"coverage,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
