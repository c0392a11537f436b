// Package money rounds currency and per-km figures with decimal semantics so
// values such as 0.385 round the way a person reading the step log expects.
package money

import "github.com/shopspring/decimal"

var half = decimal.New(5, -1)

// Round rounds v to the given number of decimal places. Halves round toward
// positive infinity, so 0.385 becomes 0.39 and -12.5 becomes -12.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Shift(places).Add(half).Floor().Shift(-places).Float64()
	return f
}

// RoundWhole rounds v to a whole currency unit.
func RoundWhole(v float64) float64 {
	return Round(v, 0)
}

// RoundThousands rounds v to the nearest thousand.
func RoundThousands(v float64) float64 {
	return Round(v, -3)
}
