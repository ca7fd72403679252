package utils

import "math"

// RoundHalfUp rounds to the nearest integer with halves rounding toward
// positive infinity (JavaScript Math.round semantics). The ledger amounts
// are displayed with this rounding, so every aggregate must use it too:
// math.Round differs for negative halves.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RoundTo1 rounds to one decimal place, halves toward positive infinity.
// Used for achievement rates.
func RoundTo1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
