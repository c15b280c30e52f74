package filter

import "nemostore-eda/internal/domain"

// Criteria is the predicate set a presentation layer builds from its widgets.
// Zero values impose no constraint. Ranges are in base units (KRW, ㎡).
type Criteria struct {
	LargeCategory  string `json:"large,omitempty"`
	MiddleCategory string `json:"middle,omitempty"`
	Deposit        *Range `json:"deposit,omitempty"`
	MonthlyRent    *Range `json:"monthlyRent,omitempty"`
	Size           *Range `json:"size,omitempty"`
	TitleKeyword   string `json:"q,omitempty"`
	StationKeyword string `json:"station,omitempty"`
	MinInterest    int    `json:"minInterest,omitempty"`
}

// Predicates builds the active predicates for ds, cheapest first: equality,
// threshold, ranges, then substring search. A range over a column the source
// never provided is skipped rather than rejecting every listing.
func (c Criteria) Predicates(ds *domain.Dataset) []Predicate {
	var preds []Predicate
	add := func(p Predicate) {
		if p != nil {
			preds = append(preds, p)
		}
	}
	add(LargeCategoryEquals(c.LargeCategory))
	add(MiddleCategoryEquals(c.MiddleCategory))
	if c.MinInterest > 0 {
		add(MinInterest(c.MinInterest))
	}
	for _, r := range []struct {
		metric domain.Metric
		rng    *Range
	}{
		{domain.MetricDeposit, c.Deposit},
		{domain.MetricMonthlyRent, c.MonthlyRent},
		{domain.MetricSize, c.Size},
	} {
		if r.rng != nil && ds.Has(string(r.metric)) {
			add(InRange(r.metric, *r.rng))
		}
	}
	add(TitleContains(c.TitleKeyword))
	add(StationContains(c.StationKeyword))
	return preds
}

// Filter applies c to ds.
func Filter(ds *domain.Dataset, c Criteria) *domain.Dataset {
	return Apply(ds, c.Predicates(ds)...)
}

// WithoutSearch drops the keyword and interest predicates, leaving the
// sidebar filters (categories and ranges).
func (c Criteria) WithoutSearch() Criteria {
	c.TitleKeyword = ""
	c.StationKeyword = ""
	c.MinInterest = 0
	return c
}
