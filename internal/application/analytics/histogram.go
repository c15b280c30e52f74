package analytics

import (
	"nemostore-eda/internal/domain"
)

// Bin is one equal-width histogram bucket [Lo, Hi); the last bucket includes Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// DefaultBins is the bucket count used for the distribution charts.
const DefaultBins = 10

// Histogram splits the range of m into bins equal-width buckets. When all
// values are equal a single bucket holds them.
func Histogram(ds *domain.Dataset, m domain.Metric, bins int) ([]Bin, error) {
	vs := values(ds, m)
	if len(vs) == 0 {
		return nil, ErrNoData
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vs)}}, nil
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lo + float64(i)*width
		out[i].Hi = lo + float64(i+1)*width
	}
	out[bins-1].Hi = hi
	for _, v := range vs {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out, nil
}
