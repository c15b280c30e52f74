package domain

import "time"

// Column names of the stores table and of uploaded CSV snapshots.
const (
	ColTitle          = "title"
	ColLargeCategory  = "businessLargeCodeName"
	ColMiddleCategory = "businessMiddleCodeName"
	ColStation        = "nearSubwayStation"
	ColFloor          = "floor"
	ColGroundFloor    = "groundFloor"
	ColDeposit        = "deposit"
	ColMonthlyRent    = "monthlyRent"
	ColPremium        = "premium"
	ColMaintenanceFee = "maintenanceFee"
	ColSize           = "size"
	ColViewCount      = "viewCount"
	ColFavoriteCount  = "favoriteCount"
	ColCreatedDate    = "createdDateUtc"

	// Derived by the preprocessor.
	ColInterestScore = "interestScore"
	ColRentPerArea   = "rentPerArea"
)

// MonetaryColumns are stored in thousands of KRW at the source.
var MonetaryColumns = []string{ColDeposit, ColMonthlyRent, ColPremium, ColMaintenanceFee}

// Listing is one enriched commercial real-estate record.
// Pointer fields are nil when the source column is absent or the value is null.
type Listing struct {
	Title                  string     `json:"title"`
	BusinessLargeCodeName  string     `json:"businessLargeCodeName"`
	BusinessMiddleCodeName string     `json:"businessMiddleCodeName"`
	NearSubwayStation      *string    `json:"nearSubwayStation"`
	Floor                  *int       `json:"floor"`
	GroundFloor            *int       `json:"groundFloor"`
	Deposit                *float64   `json:"deposit"`
	MonthlyRent            *float64   `json:"monthlyRent"`
	Premium                *float64   `json:"premium"`
	MaintenanceFee         *float64   `json:"maintenanceFee"`
	Size                   *float64   `json:"size"`
	ViewCount              int        `json:"viewCount"`
	FavoriteCount          int        `json:"favoriteCount"`
	CreatedDateUtc         *time.Time `json:"createdDateUtc"`

	InterestScore int     `json:"interestScore"`
	RentPerArea   float64 `json:"rentPerArea"`
}

// Dataset is the enriched snapshot produced by the preprocessor. Filtering
// returns a new Dataset sharing Columns; Listings are copied by value.
type Dataset struct {
	Source   string    `json:"source"`
	Columns  []string  `json:"columns"`
	Listings []Listing `json:"listings"`
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Listings)
}

func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// Has reports whether the source provided the column (derived columns count as present).
func (d *Dataset) Has(col string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Subset returns a dataset with the same source and columns holding the given listings.
func (d *Dataset) Subset(listings []Listing) *Dataset {
	return &Dataset{Source: d.Source, Columns: d.Columns, Listings: listings}
}
