package filter

import (
	"sort"

	"nemostore-eda/internal/domain"
)

// Facets are the selector options and slider bounds for a dataset.
type Facets struct {
	LargeCategories  []string `json:"largeCategories"`
	MiddleCategories []string `json:"middleCategories"`
	DepositMax       int      `json:"depositMax"` // 만원
	RentMax          int      `json:"rentMax"`    // 만원
	SizeMax          int      `json:"sizeMax"`    // ㎡
	InterestMax      int      `json:"interestMax"`
}

// defaultInterestMax bounds the interest slider when there is no data.
const defaultInterestMax = 100

// BuildFacets lists "all" plus the sorted large categories, and "all" plus
// the sorted middle categories found among listings in the chosen large one.
// Slider bounds come from the whole dataset.
func BuildFacets(ds *domain.Dataset, large string) Facets {
	f := Facets{
		LargeCategories:  append([]string{All}, distinct(ds, domain.CategoryLarge)...),
		MiddleCategories: append([]string{All}, distinct(Apply(ds, LargeCategoryEquals(large)), domain.CategoryMiddle)...),
		InterestMax:      defaultInterestMax,
	}
	if ds.Empty() {
		return f
	}
	f.DepositMax = int(maxOf(ds, domain.MetricDeposit) / DisplayUnit)
	f.RentMax = int(maxOf(ds, domain.MetricMonthlyRent) / DisplayUnit)
	f.SizeMax = int(maxOf(ds, domain.MetricSize))
	f.InterestMax = int(maxOf(ds, domain.MetricInterestScore))
	return f
}

func distinct(ds *domain.Dataset, c domain.Category) []string {
	out := []string{}
	if ds == nil {
		return out
	}
	seen := map[string]struct{}{}
	for i := range ds.Listings {
		v, ok := c.Value(&ds.Listings[i])
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func maxOf(ds *domain.Dataset, m domain.Metric) float64 {
	var best float64
	found := false
	for i := range ds.Listings {
		v, ok := m.Value(&ds.Listings[i])
		if !ok {
			continue
		}
		if !found || v > best {
			best, found = v, true
		}
	}
	return best
}
