package domain

import (
	"fmt"
	"strconv"
)

// Metric names a numeric column that can be summarized, ranked or ranged over.
type Metric string

const (
	MetricDeposit        Metric = ColDeposit
	MetricMonthlyRent    Metric = ColMonthlyRent
	MetricPremium        Metric = ColPremium
	MetricMaintenanceFee Metric = ColMaintenanceFee
	MetricSize           Metric = ColSize
	MetricInterestScore  Metric = ColInterestScore
	MetricRentPerArea    Metric = ColRentPerArea
)

// Metrics lists every supported metric.
var Metrics = []Metric{
	MetricDeposit, MetricMonthlyRent, MetricPremium, MetricMaintenanceFee,
	MetricSize, MetricInterestScore, MetricRentPerArea,
}

// ParseMetric accepts a column name such as "monthlyRent".
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Value returns the metric for l and false when it is null.
func (m Metric) Value(l *Listing) (float64, bool) {
	switch m {
	case MetricDeposit:
		return deref(l.Deposit)
	case MetricMonthlyRent:
		return deref(l.MonthlyRent)
	case MetricPremium:
		return deref(l.Premium)
	case MetricMaintenanceFee:
		return deref(l.MaintenanceFee)
	case MetricSize:
		return deref(l.Size)
	case MetricInterestScore:
		return float64(l.InterestScore), true
	case MetricRentPerArea:
		return l.RentPerArea, true
	}
	return 0, false
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Category names a categorical column used for grouping, counting and mode.
type Category string

const (
	CategoryLarge   Category = ColLargeCategory
	CategoryMiddle  Category = ColMiddleCategory
	CategoryFloor   Category = ColFloor
	CategoryStation Category = ColStation
)

var Categories = []Category{CategoryLarge, CategoryMiddle, CategoryFloor, CategoryStation}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Value returns the category key for l; empty strings and nil count as null.
func (c Category) Value(l *Listing) (string, bool) {
	switch c {
	case CategoryLarge:
		return l.BusinessLargeCodeName, l.BusinessLargeCodeName != ""
	case CategoryMiddle:
		return l.BusinessMiddleCodeName, l.BusinessMiddleCodeName != ""
	case CategoryFloor:
		if l.Floor == nil {
			return "", false
		}
		return strconv.Itoa(*l.Floor), true
	case CategoryStation:
		if l.NearSubwayStation == nil || *l.NearSubwayStation == "" {
			return "", false
		}
		return *l.NearSubwayStation, true
	}
	return "", false
}
