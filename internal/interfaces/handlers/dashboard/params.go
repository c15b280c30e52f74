package dashboard

import (
	"fmt"
	"math"
	"strings"

	dashsvc "nemostore-eda/internal/application/dashboard"
	"nemostore-eda/internal/application/filter"
	"nemostore-eda/internal/domain"
	"nemostore-eda/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// paramError names the query parameter that failed to parse.
type paramError struct {
	Param string
	Err   error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Param, e.Err)
}

func parseSource(c *fiber.Ctx) (dashsvc.Source, error) {
	raw := strings.TrimSpace(c.Query("source"))
	if strings.HasPrefix(raw, string(dashsvc.SourceCSV)+":") && !validation.IsSourceKey(raw) {
		return dashsvc.Source{}, &paramError{Param: "source", Err: fmt.Errorf("%q is not an upload key", raw)}
	}
	src, err := dashsvc.ParseSource(raw)
	if err != nil {
		return dashsvc.Source{}, &paramError{Param: "source", Err: err}
	}
	return src, nil
}

// parseCriteria reads the sidebar and search parameters. Deposit and rent
// bounds arrive in 만원, size in ㎡. A missing bound leaves that end open.
func parseCriteria(c *fiber.Ctx) (filter.Criteria, error) {
	crit := filter.Criteria{
		LargeCategory:  strings.TrimSpace(c.Query("large")),
		MiddleCategory: strings.TrimSpace(c.Query("middle")),
		TitleKeyword:   strings.TrimSpace(c.Query("q")),
		StationKeyword: strings.TrimSpace(c.Query("station")),
	}

	deposit, err := parseRange(c, "deposit")
	if err != nil {
		return crit, err
	}
	rent, err := parseRange(c, "rent")
	if err != nil {
		return crit, err
	}
	size, err := parseRange(c, "size")
	if err != nil {
		return crit, err
	}
	if deposit != nil {
		r := filter.DisplayRange(deposit.Min, deposit.Max)
		crit.Deposit = &r
	}
	if rent != nil {
		r := filter.DisplayRange(rent.Min, rent.Max)
		crit.MonthlyRent = &r
	}
	crit.Size = size

	if s := c.Query("min_interest"); s != "" {
		v, err := validation.NonNegativeInt(s)
		if err != nil {
			return crit, &paramError{Param: "min_interest", Err: err}
		}
		crit.MinInterest = v
	}
	return crit, nil
}

// parseRange reads <name>_min and <name>_max. Nil when neither is present.
func parseRange(c *fiber.Ctx, name string) (*filter.Range, error) {
	lo, hi := c.Query(name+"_min"), c.Query(name+"_max")
	if lo == "" && hi == "" {
		return nil, nil
	}
	r := filter.Range{Min: math.Inf(-1), Max: math.Inf(1)}
	if lo != "" {
		v, err := validation.NonNegative(lo)
		if err != nil {
			return nil, &paramError{Param: name + "_min", Err: err}
		}
		r.Min = v
	}
	if hi != "" {
		v, err := validation.NonNegative(hi)
		if err != nil {
			return nil, &paramError{Param: name + "_max", Err: err}
		}
		r.Max = v
	}
	if r.Min > r.Max {
		return nil, &paramError{Param: name + "_min", Err: fmt.Errorf("%s_min exceeds %s_max", name, name)}
	}
	return &r, nil
}

// parseSummary reads metric (required) and group_by (optional) as column names.
func parseSummary(c *fiber.Ctx) (domain.Metric, domain.Category, error) {
	m, err := domain.ParseMetric(strings.TrimSpace(c.Query("metric")))
	if err != nil {
		return "", "", &paramError{Param: "metric", Err: err}
	}
	raw := strings.TrimSpace(c.Query("group_by"))
	if raw == "" {
		return m, "", nil
	}
	groupBy, err := domain.ParseCategory(raw)
	if err != nil {
		return "", "", &paramError{Param: "group_by", Err: err}
	}
	return m, groupBy, nil
}
