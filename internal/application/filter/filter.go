// Package filter selects listings by a conjunction of predicates. Filtering
// never modifies a listing; it copies the ones that pass into a new dataset.
package filter

import (
	"math"
	"strings"

	"nemostore-eda/internal/domain"

	"golang.org/x/text/cases"
)

// Category selector values that disable a category predicate.
const (
	All   = "all"
	AllKo = "전체"
)

// DisplayUnit is the slider unit for deposit and rent: 만원 (10,000 KRW).
const DisplayUnit = 10000

// Predicate reports whether a listing passes one condition.
type Predicate func(l *domain.Listing) bool

// Apply keeps the listings that pass every predicate, in input order. Nil
// predicates are ignored; no predicates returns an equal copy of ds.
func Apply(ds *domain.Dataset, preds ...Predicate) *domain.Dataset {
	if ds == nil {
		return &domain.Dataset{Columns: []string{}, Listings: []domain.Listing{}}
	}
	active := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	out := make([]domain.Listing, 0, len(ds.Listings))
next:
	for i := range ds.Listings {
		l := &ds.Listings[i]
		for _, p := range active {
			if !p(l) {
				continue next
			}
		}
		out = append(out, *l)
	}
	return ds.Subset(out)
}

// IsAll reports whether a category selector means "no constraint".
func IsAll(v string) bool {
	return v == "" || strings.EqualFold(v, All) || v == AllKo
}

// LargeCategoryEquals matches businessLargeCodeName exactly; nil for "all".
func LargeCategoryEquals(v string) Predicate {
	if IsAll(v) {
		return nil
	}
	return func(l *domain.Listing) bool { return l.BusinessLargeCodeName == v }
}

// MiddleCategoryEquals matches businessMiddleCodeName exactly; nil for "all".
func MiddleCategoryEquals(v string) Predicate {
	if IsAll(v) {
		return nil
	}
	return func(l *domain.Listing) bool { return l.BusinessMiddleCodeName == v }
}

// Range is an inclusive interval in base units. Use math.Inf for an open end.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DisplayRange converts slider bounds in 만원 to KRW.
func DisplayRange(lo, hi float64) Range {
	return Range{Min: lo * DisplayUnit, Max: hi * DisplayUnit}
}

// AtLeast is the range [lo, +Inf).
func AtLeast(lo float64) Range {
	return Range{Min: lo, Max: math.Inf(1)}
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// InRange keeps listings whose metric lies in r. Null values never match.
func InRange(m domain.Metric, r Range) Predicate {
	return func(l *domain.Listing) bool {
		v, ok := m.Value(l)
		return ok && r.Contains(v)
	}
}

// MinInterest keeps listings with interestScore >= threshold.
func MinInterest(threshold int) Predicate {
	return func(l *domain.Listing) bool { return l.InterestScore >= threshold }
}

// TitleContains is a case-insensitive substring match on the title; nil for "".
func TitleContains(keyword string) Predicate {
	if keyword == "" {
		return nil
	}
	match := containsFolded(keyword)
	return func(l *domain.Listing) bool {
		return l.Title != "" && match(l.Title)
	}
}

// StationContains matches nearSubwayStation like TitleContains. Listings
// without a station never match.
func StationContains(keyword string) Predicate {
	if keyword == "" {
		return nil
	}
	match := containsFolded(keyword)
	return func(l *domain.Listing) bool {
		return l.NearSubwayStation != nil && match(*l.NearSubwayStation)
	}
}

// containsFolded compares under Unicode case folding. The returned func owns
// its Caser, which is not safe for concurrent use.
func containsFolded(keyword string) func(string) bool {
	fold := cases.Fold()
	needle := fold.String(keyword)
	return func(s string) bool {
		return strings.Contains(fold.String(s), needle)
	}
}
