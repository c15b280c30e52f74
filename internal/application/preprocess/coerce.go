package preprocess

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Raw values arrive as whatever the source produced: driver scalars from the
// store, strings from CSV, float64 after a JSON round trip through Redis.

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case []byte:
		v = string(x)
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
		if v == "" {
			return 0, false
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloatPtr(v interface{}) *float64 {
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// toIntPtr truncates toward zero, so "3.0" and 3.7 both read as 3.
func toIntPtr(v interface{}) *int {
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	n := int(math.Trunc(f))
	return &n
}

// toCount reads a popularity counter; missing, malformed and negative values count as 0.
func toCount(v interface{}) int {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return int(math.Trunc(f))
}

func toString(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}

func toStringPtr(v interface{}) *string {
	s, ok := toString(v)
	if !ok {
		return nil
	}
	return &s
}

// toTime parses ISO-8601 timestamps. Values without a zone are read as UTC.
// Numbers are not treated as epoch seconds.
func toTime(v interface{}) *time.Time {
	switch x := v.(type) {
	case time.Time:
		t := x.UTC()
		return &t
	case []byte:
		return toTime(string(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	}
	return nil
}
