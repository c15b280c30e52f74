package format

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Missing is shown in place of a null value.
const Missing = "N/A"

var printer = message.NewPrinter(language.English)

// Grouped renders the integer part of v with comma thousands separators.
// The fraction is truncated toward zero.
func Grouped(v float64) string {
	return printer.Sprintf("%d", int64(math.Trunc(v)))
}

// KRW formats an amount as "12,345원", or Missing when v is nil.
func KRW(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return Missing
	}
	return Grouped(*v) + "원"
}

// Date formats t as YYYY-MM-DD, or Missing when t is nil.
func Date(t *time.Time) string {
	if t == nil {
		return Missing
	}
	return t.Format("2006-01-02")
}
