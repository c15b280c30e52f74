// Package analytics computes summaries and rankings over a dataset. Nothing
// here mutates its input. Null metric values are skipped; when no value is
// left the result is ErrNoData rather than a zero or NaN.
package analytics

import (
	"sort"

	"nemostore-eda/internal/domain"
)

func Count(ds *domain.Dataset) int {
	return ds.Len()
}

func values(ds *domain.Dataset, m domain.Metric) []float64 {
	if ds == nil {
		return nil
	}
	out := make([]float64, 0, len(ds.Listings))
	for i := range ds.Listings {
		if v, ok := m.Value(&ds.Listings[i]); ok {
			out = append(out, v)
		}
	}
	return out
}

func Mean(ds *domain.Dataset, m domain.Metric) (float64, error) {
	return mean(values(ds, m))
}

func mean(vs []float64) (float64, error) {
	if len(vs) == 0 {
		return 0, ErrNoData
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs)), nil
}

// Median averages the two middle values for an even count.
func Median(ds *domain.Dataset, m domain.Metric) (float64, error) {
	vs := values(ds, m)
	if len(vs) == 0 {
		return 0, ErrNoData
	}
	sort.Float64s(vs)
	mid := len(vs) / 2
	if len(vs)%2 == 1 {
		return vs[mid], nil
	}
	return (vs[mid-1] + vs[mid]) / 2, nil
}

// Max returns the largest value of m.
func Max(ds *domain.Dataset, m domain.Metric) (float64, error) {
	vs := values(ds, m)
	if len(vs) == 0 {
		return 0, ErrNoData
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if v > best {
			best = v
		}
	}
	return best, nil
}

// Summary is the JSON-friendly form of the scalar statistics of one metric.
// Nil fields mean no data.
type Summary struct {
	Metric domain.Metric `json:"metric"`
	Count  int           `json:"count"`
	Mean   *float64      `json:"mean"`
	Median *float64      `json:"median"`
}

func Summarize(ds *domain.Dataset, m domain.Metric) Summary {
	s := Summary{Metric: m, Count: len(values(ds, m))}
	if v, err := Mean(ds, m); err == nil {
		s.Mean = &v
	}
	if v, err := Median(ds, m); err == nil {
		s.Median = &v
	}
	return s
}

// Optional turns a (value, err) pair into a pointer that is nil on error.
func Optional(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}
