// Package money provides rounding and tolerance helpers for currency amounts.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Default currency precision and settlement tolerance.
const (
	DefaultPrecision = 2
	DefaultTolerance = 0.01
)

// Round rounds x to the given number of decimal places, half away from zero.
// NaN and infinities are returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// Cents rounds x to two decimal places.
func Cents(x float64) float64 {
	return Round(x, DefaultPrecision)
}

// IsSettled reports whether |x| is below tolerance.
func IsSettled(x, tolerance float64) bool {
	return math.Abs(x) < tolerance
}

// WithinTolerance reports whether a and b differ by at most tolerance.
func WithinTolerance(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// Sum adds values using decimal arithmetic so long lists of cent amounts do
// not drift.
func Sum(values []float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return sumFloat(values)
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// sumFloat is the plain float fallback used when a value has no decimal form.
func sumFloat(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
