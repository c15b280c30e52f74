package dashboard

import (
	"nemostore-eda/internal/application/analytics"
	"nemostore-eda/internal/application/filter"
	"nemostore-eda/internal/domain"
	"nemostore-eda/internal/pkg/format"
)

// TopListings is how many listings the industry rankings show.
const TopListings = 10

// Amount is a KRW value with its display text.
type Amount struct {
	Value *float64 `json:"value"`
	Text  string   `json:"text"`
}

func amount(v *float64) Amount {
	return Amount{Value: v, Text: format.KRW(v)}
}

// Point is one listing in the size against rent scatter.
type Point struct {
	Title          string  `json:"title"`
	MiddleCategory string  `json:"middleCategory"`
	Size           float64 `json:"size"`
	MonthlyRent    float64 `json:"monthlyRent"`
	InterestScore  int     `json:"interestScore"`
}

type Overview struct {
	Total            int                    `json:"total"`
	MedianDeposit    Amount                 `json:"medianDeposit"`
	MedianRent       Amount                 `json:"medianRent"`
	MeanSize         *float64               `json:"meanSize"`
	MeanPremium      Amount                 `json:"meanPremium"`
	ByLargeCategory  []analytics.ValueCount `json:"byLargeCategory"`
	TopLargeCategory string                 `json:"topLargeCategory,omitempty"`
	RentBins         []analytics.Bin        `json:"rentBins"`
	DepositBins      []analytics.Bin        `json:"depositBins"`
	Scatter          []Point                `json:"scatter"`
}

// BuildOverview summarizes ds. Statistics with no data are nil, never zero.
func BuildOverview(ds *domain.Dataset) Overview {
	o := Overview{
		Total:           analytics.Count(ds),
		MedianDeposit:   amount(analytics.Optional(analytics.Median(ds, domain.MetricDeposit))),
		MedianRent:      amount(analytics.Optional(analytics.Median(ds, domain.MetricMonthlyRent))),
		MeanSize:        analytics.Optional(analytics.Mean(ds, domain.MetricSize)),
		MeanPremium:     amount(analytics.Optional(analytics.Mean(ds, domain.MetricPremium))),
		ByLargeCategory: analytics.CountBy(ds, domain.CategoryLarge),
		RentBins:        []analytics.Bin{},
		DepositBins:     []analytics.Bin{},
		Scatter:         []Point{},
	}
	if mode, err := analytics.Mode(ds, domain.CategoryLarge); err == nil {
		o.TopLargeCategory = mode
	}
	if bins, err := analytics.Histogram(ds, domain.MetricMonthlyRent, analytics.DefaultBins); err == nil {
		o.RentBins = bins
	}
	if bins, err := analytics.Histogram(ds, domain.MetricDeposit, analytics.DefaultBins); err == nil {
		o.DepositBins = bins
	}
	if ds != nil {
		for _, l := range ds.Listings {
			if l.Size == nil || l.MonthlyRent == nil {
				continue
			}
			o.Scatter = append(o.Scatter, Point{
				Title:          l.Title,
				MiddleCategory: l.BusinessMiddleCodeName,
				Size:           *l.Size,
				MonthlyRent:    *l.MonthlyRent,
				InterestScore:  l.InterestScore,
			})
		}
	}
	return o
}

// Ranked is one bar of a top-N chart.
type Ranked struct {
	Title string  `json:"title"`
	Value float64 `json:"value"`
}

type Industry struct {
	Count           int                   `json:"count"`
	MeanRent        Amount                `json:"meanRent"`
	MeanDeposit     Amount                `json:"meanDeposit"`
	MeanRentPerArea Amount                `json:"meanRentPerArea"`
	MeanInterest    *float64              `json:"meanInterest"`
	RentByFloor     []analytics.GroupMean `json:"rentByFloor"`
	RentByMiddle    []analytics.GroupMean `json:"rentByMiddle"`
	TopRentPerArea  []Ranked              `json:"topRentPerArea"`
	TopInterest     []Ranked              `json:"topInterest"`
	TopRentFloor    string                `json:"topRentFloor,omitempty"`
	MostEfficient   string                `json:"mostEfficient,omitempty"`
}

// BuildIndustry summarizes an already filtered dataset.
func BuildIndustry(ds *domain.Dataset) Industry {
	in := Industry{
		Count:           analytics.Count(ds),
		MeanRent:        amount(analytics.Optional(analytics.Mean(ds, domain.MetricMonthlyRent))),
		MeanDeposit:     amount(analytics.Optional(analytics.Mean(ds, domain.MetricDeposit))),
		MeanRentPerArea: amount(analytics.Optional(analytics.Mean(ds, domain.MetricRentPerArea))),
		MeanInterest:    analytics.Optional(analytics.Mean(ds, domain.MetricInterestScore)),
		RentByFloor:     analytics.GroupMeans(ds, domain.CategoryFloor, domain.MetricMonthlyRent),
		RentByMiddle:    analytics.GroupMeans(ds, domain.CategoryMiddle, domain.MetricMonthlyRent),
		TopRentPerArea:  ranked(ds, domain.MetricRentPerArea),
		TopInterest:     ranked(ds, domain.MetricInterestScore),
	}
	if len(in.RentByFloor) > 0 {
		in.TopRentFloor = in.RentByFloor[0].Key
	}
	if len(in.TopRentPerArea) > 0 {
		in.MostEfficient = in.TopRentPerArea[0].Title
	}
	return in
}

func ranked(ds *domain.Dataset, m domain.Metric) []Ranked {
	top := analytics.TopN(ds, m, TopListings)
	out := make([]Ranked, 0, len(top))
	for i := range top {
		v, _ := m.Value(&top[i])
		out = append(out, Ranked{Title: top[i].Title, Value: v})
	}
	return out
}

// SearchRow is one listing as the search table and detail view show it.
type SearchRow struct {
	Title          string   `json:"title"`
	LargeCategory  string   `json:"largeCategory"`
	MiddleCategory string   `json:"middleCategory"`
	Deposit        Amount   `json:"deposit"`
	MonthlyRent    Amount   `json:"monthlyRent"`
	Premium        Amount   `json:"premium"`
	MaintenanceFee Amount   `json:"maintenanceFee"`
	RentPerArea    Amount   `json:"rentPerArea"`
	Size           *float64 `json:"size"`
	Floor          *int     `json:"floor"`
	GroundFloor    *int     `json:"groundFloor"`
	Station        string   `json:"station"`
	InterestScore  int      `json:"interestScore"`
	CreatedDate    string   `json:"createdDate"`
}

// Search holds the matching rows. InterestMax bounds the interest slider and
// comes from the listings before the keyword and interest filters.
type Search struct {
	Count       int         `json:"count"`
	InterestMax int         `json:"interestMax"`
	Rows        []SearchRow `json:"rows"`
}

// BuildSearch applies the keyword and interest predicates of c to ds, which
// the sidebar filters have already narrowed.
func BuildSearch(ds *domain.Dataset, c filter.Criteria) Search {
	s := Search{
		InterestMax: filter.BuildFacets(ds, filter.All).InterestMax,
		Rows:        []SearchRow{},
	}
	hits := filter.Apply(ds,
		filter.TitleContains(c.TitleKeyword),
		filter.StationContains(c.StationKeyword),
		filter.MinInterest(c.MinInterest),
	)
	for i := range hits.Listings {
		s.Rows = append(s.Rows, searchRow(&hits.Listings[i]))
	}
	s.Count = len(s.Rows)
	return s
}

func searchRow(l *domain.Listing) SearchRow {
	rpa := l.RentPerArea
	row := SearchRow{
		Title:          l.Title,
		LargeCategory:  l.BusinessLargeCodeName,
		MiddleCategory: l.BusinessMiddleCodeName,
		Deposit:        amount(l.Deposit),
		MonthlyRent:    amount(l.MonthlyRent),
		Premium:        amount(l.Premium),
		MaintenanceFee: amount(l.MaintenanceFee),
		RentPerArea:    amount(&rpa),
		Size:           l.Size,
		Floor:          l.Floor,
		GroundFloor:    l.GroundFloor,
		Station:        format.Missing,
		InterestScore:  l.InterestScore,
		CreatedDate:    format.Date(l.CreatedDateUtc),
	}
	if l.NearSubwayStation != nil && *l.NearSubwayStation != "" {
		row.Station = *l.NearSubwayStation
	}
	return row
}

// MetricSummary describes one numeric column, optionally broken down by a
// categorical one.
type MetricSummary struct {
	analytics.Summary
	Max     *float64              `json:"max"`
	GroupBy domain.Category       `json:"groupBy,omitempty"`
	Groups  []analytics.GroupMean `json:"groups"`
}

// BuildSummary summarizes m over ds. Groups is empty unless groupBy is set.
func BuildSummary(ds *domain.Dataset, m domain.Metric, groupBy domain.Category) MetricSummary {
	s := MetricSummary{
		Summary: analytics.Summarize(ds, m),
		Max:     analytics.Optional(analytics.Max(ds, m)),
		GroupBy: groupBy,
		Groups:  []analytics.GroupMean{},
	}
	if groupBy != "" {
		s.Groups = analytics.GroupMeans(ds, groupBy, m)
	}
	return s
}
