// Package format renders evaluation results for display and for the clipboard.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Display thresholds: magnitudes outside [expSmall, expLarge) use exponent form.
const (
	expSmall     = 0.000001
	expLarge     = 1e9
	expDigits    = 8
	fixedDecimal = 10
)

// Result formats v for display: exponent form for very small or very large
// magnitudes, otherwise rounded to 10 decimal places with digit grouping.
func Result(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "∞"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < expSmall || abs >= expLarge) {
		return Exponential(v, expDigits)
	}
	rounded, _ := decimal.NewFromFloat(v).Round(fixedDecimal).Float64()
	if rounded == 0 {
		return "0"
	}
	return humanize.CommafWithDigits(rounded, fixedDecimal)
}

// Exponential formats v with the given number of fraction digits and an
// exponent without zero padding, e.g. 1.50000000e+9.
func Exponential(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'e', digits, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign, digitsPart := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digitsPart == "" {
		digitsPart = "0"
	}
	return mant + "e" + sign + digitsPart
}

// Plain formats v the way it is copied to the clipboard: no grouping and no
// exponent, shortest representation that round-trips.
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
