package models

import "math"

// Missing returns the sentinel for an absent numeric value.
// It is distinct from zero: a missing over-rate must never read as 0%.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
