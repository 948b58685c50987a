// Package mathutil provides common mathematical utility functions.
package mathutil

import "math"

// maxExactUnits is the largest integer float64 represents without gaps.
const maxExactUnits = 1 << 53

// Scale returns the number of grid units per currency unit for the given
// number of decimal places.
func Scale(decimals int) int64 {
	scale := int64(1)
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	return scale
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// ToUnits converts an amount into whole grid units. ok is false unless
// FromUnits(units, scale) gives back exactly val, so a decimal with at most
// the configured places is accepted and anything else is rejected.
func ToUnits(val float64, scale int64) (units int64, ok bool) {
	scaled := val * float64(scale)
	if scaled > maxExactUnits {
		return 0, false
	}
	rounded := int64(math.Round(scaled))
	if FromUnits(rounded, scale) != val {
		return 0, false
	}
	return rounded, true
}

// FloorUnits returns the largest unit count k with FromUnits(k, scale) <= val,
// saturating at the largest exactly representable count. val must be finite
// and non-negative.
func FloorUnits(val float64, scale int64) int64 {
	scaled := val * float64(scale)
	if scaled >= maxExactUnits {
		return maxExactUnits
	}

	// The product may round across an integer in either direction.
	k := int64(math.Floor(scaled))
	for k < maxExactUnits && FromUnits(k+1, scale) <= val {
		k++
	}
	for k > 0 && FromUnits(k, scale) > val {
		k--
	}
	return k
}

// FromUnits converts grid units back to an amount. It is monotonic in units.
func FromUnits(units int64, scale int64) float64 {
	return float64(units) / float64(scale)
}
