// Package format renders numbers the way the dashboard shows them: Indonesian
// digit grouping ("." thousands, "," decimals) and Rupiah amounts without cents.
package format

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	currencyPrefix = "Rp "
	thousandsSep   = "."
	decimalSep     = ","
)

// IDR formats an amount as Rupiah with no fractional digits, e.g. "Rp 10.000.000"
func IDR(n float64) string {
	if s, ok := nonFinite(n); ok {
		return s
	}
	d := decimal.NewFromFloat(n).Round(0)
	if d.IsNegative() {
		return "-" + currencyPrefix + localized(d.Abs())
	}
	return currencyPrefix + localized(d)
}

// Number formats n with at most two fractional digits, trailing zeros dropped, e.g. "12,5"
func Number(n float64) string {
	if s, ok := nonFinite(n); ok {
		return s
	}
	d := decimal.NewFromFloat(n).Round(2)
	if d.IsNegative() {
		return "-" + localized(d.Abs())
	}
	return localized(d)
}

// Percent formats n like Number with a trailing percent sign
func Percent(n float64) string {
	return Number(n) + "%"
}

// Multiple formats a valuation ratio like Number with a trailing "x", e.g. "14,2x"
func Multiple(n float64) string {
	return Number(n) + "x"
}

// Capital formats a whole Rupiah amount the way the capital input echoes it, e.g. "1.500.000"
func Capital(n int64) string {
	if n < 0 {
		return "-" + strings.ReplaceAll(humanize.Comma(-n), ",", thousandsSep)
	}
	return strings.ReplaceAll(humanize.Comma(n), ",", thousandsSep)
}

// Fixed formats n with exactly places fractional digits and a "." separator.
// Scores are shown this way ("0.8123"), unlocalized.
func Fixed(n float64, places int32) string {
	if s, ok := nonFinite(n); ok {
		return s
	}
	return decimal.NewFromFloat(n).StringFixed(places)
}

// Millions formats a share volume in millions with one digit, e.g. "12.3 Juta"
func Millions(n float64) string {
	if s, ok := nonFinite(n); ok {
		return s
	}
	return decimal.NewFromFloat(n).Div(decimal.NewFromInt(1_000_000)).StringFixed(1) + " Juta"
}

// ThousandsTick formats a price axis tick in thousands, e.g. 9275 → "9k"
func ThousandsTick(n float64) string {
	if s, ok := nonFinite(n); ok {
		return s
	}
	return decimal.NewFromFloat(n).Div(decimal.NewFromInt(1000)).StringFixed(0) + "k"
}

// localized renders a non-negative decimal with Indonesian separators.
// decimal.String() already drops trailing fractional zeros.
func localized(d decimal.Decimal) string {
	whole := humanize.BigComma(d.Truncate(0).BigInt())
	whole = strings.ReplaceAll(whole, ",", thousandsSep)

	_, frac, ok := strings.Cut(d.String(), ".")
	if !ok || frac == "" {
		return whole
	}
	return whole + decimalSep + frac
}

func nonFinite(n float64) (string, bool) {
	switch {
	case math.IsNaN(n):
		return "NaN", true
	case math.IsInf(n, 1):
		return "∞", true
	case math.IsInf(n, -1):
		return "-∞", true
	}
	return "", false
}
