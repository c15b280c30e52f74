package analytics

import (
	"sort"

	"nemostore-eda/internal/domain"
)

// Mode returns the most frequent non-null value of c. On a tie the winner is
// the value whose count reached the maximum first while scanning front to
// back: for a,b,b,a that is b.
func Mode(ds *domain.Dataset, c domain.Category) (string, error) {
	if ds == nil {
		return "", ErrNoData
	}
	counts := map[string]int{}
	best, bestCount := "", 0
	for i := range ds.Listings {
		v, ok := c.Value(&ds.Listings[i])
		if !ok {
			continue
		}
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	if bestCount == 0 {
		return "", ErrNoData
	}
	return best, nil
}

// ValueCount is one row of a value-count table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountBy counts non-null values of c, most frequent first; equal counts keep
// first-appearance order.
func CountBy(ds *domain.Dataset, c domain.Category) []ValueCount {
	out := []ValueCount{}
	if ds == nil {
		return out
	}
	index := map[string]int{}
	for i := range ds.Listings {
		v, ok := c.Value(&ds.Listings[i])
		if !ok {
			continue
		}
		if j, seen := index[v]; seen {
			out[j].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
