// Package preprocess turns a raw snapshot into the enriched dataset: typed
// fields, monetary values in KRW, interest score, rent per area and parsed
// creation dates.
//
// Enrich must run exactly once per raw snapshot. Running it on its own output
// is impossible by type, and running it twice on the same raw copy would
// scale money twice; callers take a fresh copy from the loader instead.
package preprocess

import (
	"nemostore-eda/internal/domain"
)

// UnitScale converts source amounts (thousands of KRW) to KRW.
const UnitScale = 1000

// FavoriteWeight is how many views one favorite is worth in the interest score.
const FavoriteWeight = 3

// Enrich types and enriches raw. Absent columns stay absent; malformed values
// become nil. An empty input yields an empty dataset with the same columns.
func Enrich(raw *domain.RawDataset) *domain.Dataset {
	if raw.Empty() {
		out := &domain.Dataset{Columns: []string{}, Listings: []domain.Listing{}}
		if raw != nil {
			out.Source = raw.Source
			out.Columns = append(out.Columns, raw.Columns...)
		}
		return out
	}

	listings := make([]domain.Listing, len(raw.Rows))
	for i, row := range raw.Rows {
		listings[i] = typed(row)
	}

	convertUnits(listings, raw)
	deriveInterestScore(listings)
	deriveRentPerArea(listings)
	if raw.Has(domain.ColCreatedDate) {
		parseCreatedDates(listings, raw)
	}

	cols := make([]string, 0, len(raw.Columns)+2)
	cols = append(cols, raw.Columns...)
	for _, c := range []string{domain.ColInterestScore, domain.ColRentPerArea} {
		if !raw.Has(c) {
			cols = append(cols, c)
		}
	}
	return &domain.Dataset{Source: raw.Source, Columns: cols, Listings: listings}
}

func typed(row domain.RawRecord) domain.Listing {
	l := domain.Listing{
		NearSubwayStation: toStringPtr(row[domain.ColStation]),
		Floor:             toIntPtr(row[domain.ColFloor]),
		GroundFloor:       toIntPtr(row[domain.ColGroundFloor]),
		Deposit:           toFloatPtr(row[domain.ColDeposit]),
		MonthlyRent:       toFloatPtr(row[domain.ColMonthlyRent]),
		Premium:           toFloatPtr(row[domain.ColPremium]),
		MaintenanceFee:    toFloatPtr(row[domain.ColMaintenanceFee]),
		Size:              toFloatPtr(row[domain.ColSize]),
		ViewCount:         toCount(row[domain.ColViewCount]),
		FavoriteCount:     toCount(row[domain.ColFavoriteCount]),
	}
	l.Title, _ = toString(row[domain.ColTitle])
	l.BusinessLargeCodeName, _ = toString(row[domain.ColLargeCategory])
	l.BusinessMiddleCodeName, _ = toString(row[domain.ColMiddleCategory])
	return l
}

func convertUnits(listings []domain.Listing, raw *domain.RawDataset) {
	for _, col := range domain.MonetaryColumns {
		if !raw.Has(col) {
			continue
		}
		for i := range listings {
			if p := monetaryField(&listings[i], col); p != nil && *p != nil {
				v := **p * UnitScale
				*p = &v
			}
		}
	}
}

func monetaryField(l *domain.Listing, col string) **float64 {
	switch col {
	case domain.ColDeposit:
		return &l.Deposit
	case domain.ColMonthlyRent:
		return &l.MonthlyRent
	case domain.ColPremium:
		return &l.Premium
	case domain.ColMaintenanceFee:
		return &l.MaintenanceFee
	}
	return nil
}

func deriveInterestScore(listings []domain.Listing) {
	for i := range listings {
		listings[i].InterestScore = listings[i].ViewCount + FavoriteWeight*listings[i].FavoriteCount
	}
}

// deriveRentPerArea leaves 0 when size is missing or non-positive; 0 is a
// sentinel, not a ratio.
func deriveRentPerArea(listings []domain.Listing) {
	for i := range listings {
		l := &listings[i]
		l.RentPerArea = 0
		if l.MonthlyRent == nil || l.Size == nil || *l.Size <= 0 {
			continue
		}
		l.RentPerArea = *l.MonthlyRent / *l.Size
	}
}

func parseCreatedDates(listings []domain.Listing, raw *domain.RawDataset) {
	for i, row := range raw.Rows {
		listings[i].CreatedDateUtc = toTime(row[domain.ColCreatedDate])
	}
}
