package analytics

import (
	"sort"

	"nemostore-eda/internal/domain"
)

// TopN returns copies of the n listings with the largest m, descending. Equal
// values keep input order. Listings with a null m are not ranked. n larger
// than the dataset returns all ranked listings; n <= 0 returns none.
func TopN(ds *domain.Dataset, m domain.Metric, n int) []domain.Listing {
	out := []domain.Listing{}
	if ds == nil || n <= 0 {
		return out
	}
	type ranked struct {
		v float64
		l domain.Listing
	}
	rs := make([]ranked, 0, len(ds.Listings))
	for i := range ds.Listings {
		if v, ok := m.Value(&ds.Listings[i]); ok {
			rs = append(rs, ranked{v: v, l: ds.Listings[i]})
		}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].v > rs[j].v })
	if n > len(rs) {
		n = len(rs)
	}
	for _, r := range rs[:n] {
		out = append(out, r.l)
	}
	return out
}

// GroupMean is the mean of a metric within one category value.
type GroupMean struct {
	Key   string  `json:"key"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// GroupMeans partitions ds by c and averages m per partition. Ordered by
// descending mean, then ascending key. Listings with a null key or a null
// metric are left out; a partition with no values does not appear.
func GroupMeans(ds *domain.Dataset, c domain.Category, m domain.Metric) []GroupMean {
	out := []GroupMean{}
	if ds == nil {
		return out
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for i := range ds.Listings {
		l := &ds.Listings[i]
		key, ok := c.Value(l)
		if !ok {
			continue
		}
		v, ok := m.Value(l)
		if !ok {
			continue
		}
		sums[key] += v
		counts[key]++
	}
	for key, n := range counts {
		out = append(out, GroupMean{Key: key, Mean: sums[key] / float64(n), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// TopGroup returns the partition with the highest mean.
func TopGroup(ds *domain.Dataset, c domain.Category, m domain.Metric) (GroupMean, error) {
	groups := GroupMeans(ds, c, m)
	if len(groups) == 0 {
		return GroupMean{}, ErrNoData
	}
	return groups[0], nil
}
