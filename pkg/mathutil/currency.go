// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/vehicle-loan/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsPaidOff reports whether a running balance has reached zero, allowing for
// floating point residue.
func IsPaidOff(balance float64) bool {
	return balance <= constants.BalanceEpsilon
}

// FloorBalance clamps a running balance at zero, snapping residue below
// BalanceEpsilon to exactly zero.
func FloorBalance(balance float64) float64 {
	if IsPaidOff(balance) {
		return 0
	}
	return balance
}

// MaxInt returns the larger of two ints.
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
