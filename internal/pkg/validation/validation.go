package validation

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// sourceKeyRe matches the key returned by a CSV upload: "csv:" + sha256 hex.
var sourceKeyRe = regexp.MustCompile(`^csv:[0-9a-f]{64}$`)

func IsSourceKey(s string) bool {
	return sourceKeyRe.MatchString(s)
}

// IsCSVFileName accepts names ending in .csv, any case.
func IsCSVFileName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// NonNegative parses a finite number >= 0.
func NonNegative(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q must not be negative", s)
	}
	return v, nil
}

// NonNegativeInt parses a whole number >= 0.
func NonNegativeInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q must not be negative", s)
	}
	return v, nil
}
