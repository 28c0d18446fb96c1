package attom

// Property is one property record as returned by the ATTOM property API.
// Every branch is optional: each endpoint variant populates only a subset of
// the tree, and the same logical fact can appear at more than one location
// depending on which endpoint produced the record. All leaves are pointers so
// callers can tell "unknown" from a genuine zero value.
type Property struct {
	Identifier  *Identifier  `json:"identifier,omitempty"`
	Address     *Address     `json:"address,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	Summary     *Summary     `json:"summary,omitempty"`
	Building    *Building    `json:"building,omitempty"`
	Lot         *Lot         `json:"lot,omitempty"`
	Owner       *Owner       `json:"owner,omitempty"`
	Assessment  *Assessment  `json:"assessment,omitempty"`
	Sale        *Sale        `json:"sale,omitempty"`
	AVM         *AVM         `json:"avm,omitempty"`
	Mortgage    *Mortgage    `json:"mortgage,omitempty"`
	Foreclosure *Foreclosure `json:"foreclosure,omitempty"`
}

// Identifier holds provider and jurisdiction IDs for a property.
type Identifier struct {
	ID      *int64  `json:"Id,omitempty"`
	AttomID *int64  `json:"attomId,omitempty"`
	FIPS    *string `json:"fips,omitempty"`
	APN     *string `json:"apn,omitempty"`
}

// Address holds the situs address.
type Address struct {
	OneLine     *string `json:"oneLine,omitempty"`
	Line1       *string `json:"line1,omitempty"`
	Line2       *string `json:"line2,omitempty"`
	Locality    *string `json:"locality,omitempty"`
	CountrySubd *string `json:"countrySubd,omitempty"`
	Postal1     *string `json:"postal1,omitempty"`
}

// Location holds coordinates. ATTOM returns them as strings.
type Location struct {
	Latitude  *string `json:"latitude,omitempty"`
	Longitude *string `json:"longitude,omitempty"`
}

// Summary holds the structural summary, including the record-level absentee
// indicator ("ABSENTEE OWNER", "OWNER OCCUPIED", or single-letter "A"/"O").
type Summary struct {
	PropType     *string `json:"propType,omitempty"`
	PropSubType  *string `json:"propSubType,omitempty"`
	PropertyType *string `json:"propertyType,omitempty"`
	PropLandUse  *string `json:"propLandUse,omitempty"`
	YearBuilt    *int    `json:"yearBuilt,omitempty"`
	AbsenteeInd  *string `json:"absenteeInd,omitempty"`
}

// Building holds structural detail.
type Building struct {
	Size    *BuildingSize    `json:"size,omitempty"`
	Rooms   *BuildingRooms   `json:"rooms,omitempty"`
	Summary *BuildingSummary `json:"summary,omitempty"`
}

// BuildingSize holds square footage under its several provider names.
type BuildingSize struct {
	BldgSize      *float64 `json:"bldgSize,omitempty"`
	LivingSize    *float64 `json:"livingSize,omitempty"`
	UniversalSize *float64 `json:"universalSize,omitempty"`
}

// BuildingRooms holds bed/bath counts.
type BuildingRooms struct {
	Beds       *int     `json:"beds,omitempty"`
	BathsFull  *int     `json:"bathsFull,omitempty"`
	BathsTotal *float64 `json:"bathsTotal,omitempty"`
	RoomsTotal *int     `json:"roomsTotal,omitempty"`
}

// BuildingSummary holds year built and construction summary.
type BuildingSummary struct {
	YearBuilt *int    `json:"yearBuilt,omitempty"`
	Levels    *int    `json:"levels,omitempty"`
	BldgType  *string `json:"bldgType,omitempty"`
	Quality   *string `json:"quality,omitempty"`
}

// Lot holds lot detail.
type Lot struct {
	LotSize1        *float64 `json:"lotSize1,omitempty"`
	LotSize2        *float64 `json:"lotSize2,omitempty"`
	PoolInd         *string  `json:"poolInd,omitempty"`
	SiteZoningIdent *string  `json:"siteZoningIdent,omitempty"`
}

// OwnerName is one of up to four named owners on a record.
type OwnerName struct {
	FullName       *string `json:"fullName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`
	FirstNameAndMi *string `json:"firstNameAndMi,omitempty"`
}

// Owner holds ownership detail. Owner-occupancy and absentee status are
// populated inconsistently across endpoints; see the prospect package
// accessors for how they are combined.
type Owner struct {
	Owner1                *OwnerName `json:"owner1,omitempty"`
	Owner2                *OwnerName `json:"owner2,omitempty"`
	Owner3                *OwnerName `json:"owner3,omitempty"`
	Owner4                *OwnerName `json:"owner4,omitempty"`
	CorporateIndicator    *string    `json:"corporateIndicator,omitempty"`
	AbsenteeOwnerStatus   *string    `json:"absenteeOwnerStatus,omitempty"`
	MailingAddressOneLine *string    `json:"mailingAddressOneLine,omitempty"`
	OwnerOccupied         *string    `json:"ownerOccupied,omitempty"`
	OwnerRelationshipType *string    `json:"ownerRelationshipType,omitempty"`
}

// Assessment holds assessed/appraised/market values and tax.
type Assessment struct {
	Appraised *Appraised     `json:"appraised,omitempty"`
	Assessed  *Assessed      `json:"assessed,omitempty"`
	Market    *Market        `json:"market,omitempty"`
	Tax       *AssessmentTax `json:"tax,omitempty"`
}

// Appraised holds appraised values.
type Appraised struct {
	ApprTtlValue  *float64 `json:"apprTtlValue,omitempty"`
	ApprImprValue *float64 `json:"apprImprValue,omitempty"`
	ApprLandValue *float64 `json:"apprLandValue,omitempty"`
}

// Assessed holds assessed values.
type Assessed struct {
	AssdTtlValue  *float64 `json:"assdTtlValue,omitempty"`
	AssdImprValue *float64 `json:"assdImprValue,omitempty"`
	AssdLandValue *float64 `json:"assdLandValue,omitempty"`
}

// Market holds the jurisdiction market values.
type Market struct {
	MktTtlValue  *float64 `json:"mktTtlValue,omitempty"`
	MktImprValue *float64 `json:"mktImprValue,omitempty"`
	MktLandValue *float64 `json:"mktLandValue,omitempty"`
}

// AssessmentTax holds annual tax.
type AssessmentTax struct {
	TaxAmt  *float64 `json:"taxAmt,omitempty"`
	TaxYear *int     `json:"taxYear,omitempty"`
}

// SaleAmount holds the nested sale fields.
type SaleAmount struct {
	SaleAmt            *float64 `json:"saleAmt,omitempty"`
	SalePrice          *float64 `json:"salePrice,omitempty"`
	SaleTransDate      *string  `json:"saleTransDate,omitempty"`
	SaleRecDate        *string  `json:"saleRecDate,omitempty"`
	SaleSearchDate     *string  `json:"saleSearchDate,omitempty"`
	SaleDocType        *string  `json:"saleDocType,omitempty"`
	SaleDocNum         *string  `json:"saleDocNum,omitempty"`
	SaleTransType      *string  `json:"saleTransType,omitempty"`
	SaleDisclosureType *string  `json:"saleDisclosureType,omitempty"`
}

// Sale holds sale detail. Some endpoints flatten the amount/date fields to the
// sale level instead of nesting them under amount.
type Sale struct {
	Amount *SaleAmount `json:"amount,omitempty"`

	SaleAmt        *float64 `json:"saleAmt,omitempty"`
	SalePrice      *float64 `json:"salePrice,omitempty"`
	SaleTransDate  *string  `json:"saleTransDate,omitempty"`
	SaleRecDate    *string  `json:"saleRecDate,omitempty"`
	SaleSearchDate *string  `json:"saleSearchDate,omitempty"`
}

// AVMAmount holds the automated valuation and its range.
type AVMAmount struct {
	Value *float64 `json:"value,omitempty"`
	High  *float64 `json:"high,omitempty"`
	Low   *float64 `json:"low,omitempty"`
	Scr   *float64 `json:"scr,omitempty"`
}

// AVM holds the automated valuation model output.
type AVM struct {
	Amount    *AVMAmount `json:"amount,omitempty"`
	EventDate *string    `json:"eventDate,omitempty"`
}

// Lender holds mortgage lender identity.
type Lender struct {
	FullName *string `json:"fullName,omitempty"`
}

// ConcurrentLoan is the expandedprofile nesting that duplicates the
// mortgage-level fields under FirstConcurrent/SecondConcurrent.
type ConcurrentLoan struct {
	Amount   *float64 `json:"amount,omitempty"`
	Lender   *Lender  `json:"lender,omitempty"`
	Term     *string  `json:"term,omitempty"`
	Date     *string  `json:"date,omitempty"`
	DueDate  *string  `json:"dueDate,omitempty"`
	LoanType *string  `json:"loanType,omitempty"`
}

// Mortgage holds loan detail plus the borrower (mortgagor) fields. The
// borrower is the property owner, which makes these fields the owner-name
// fallback when the owner branch is absent.
type Mortgage struct {
	Amount           *float64        `json:"amount,omitempty"`
	Lender           *Lender         `json:"lender,omitempty"`
	Term             *string         `json:"term,omitempty"`
	Date             *string         `json:"date,omitempty"`
	DueDate          *string         `json:"dueDate,omitempty"`
	FirstConcurrent  *ConcurrentLoan `json:"FirstConcurrent,omitempty"`
	SecondConcurrent *ConcurrentLoan `json:"SecondConcurrent,omitempty"`

	Borrower1                     *OwnerName `json:"borrower1,omitempty"`
	Borrower2                     *OwnerName `json:"borrower2,omitempty"`
	BorrowerVesting               *string    `json:"borrowerVesting,omitempty"`
	BorrowerMailFullStreetAddress *string    `json:"borrowerMailFullStreetAddress,omitempty"`
	BorrowerMailCity              *string    `json:"borrowerMailCity,omitempty"`
	BorrowerMailState             *string    `json:"borrowerMailState,omitempty"`
	BorrowerMailZip               *string    `json:"borrowerMailZip,omitempty"`
}

// Foreclosure holds pre-foreclosure filing detail.
type Foreclosure struct {
	ActionType         *string  `json:"actionType,omitempty"`
	FilingDate         *string  `json:"filingDate,omitempty"`
	AuctionDate        *string  `json:"auctionDate,omitempty"`
	DefaultAmount      *float64 `json:"defaultAmount,omitempty"`
	OriginalLoanAmount *float64 `json:"originalLoanAmount,omitempty"`
}

// Status is the response envelope status block.
type Status struct {
	Version  string `json:"version"`
	Code     int    `json:"code"`
	Msg      string `json:"msg"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pagesize"`
}

// SearchResult is the response envelope for property searches.
type SearchResult struct {
	Status   Status     `json:"status"`
	Property []Property `json:"property"`
}
