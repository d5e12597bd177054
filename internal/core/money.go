// Package core holds the domain types and the pure time/money helpers that
// back every displayed value. Helpers here are total: invalid input yields a
// default rather than an error, so a single corrupt record never blocks a
// whole dashboard refresh.
package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds to 2 decimal places, half away from zero. Every currency
// value crossing the UI boundary has been through this. NaN and infinities
// collapse to zero.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}
