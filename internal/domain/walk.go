package domain

import (
	"math"
	"math/rand"
)

// Walk applies one bounded random step: a uniform delta in
// [-maxDelta, +maxDelta] added to prev, clamped to [min, max].
// Both soil and weather fields evolve through this single helper so their
// perturbation semantics cannot drift apart.
func Walk(rng *rand.Rand, prev, maxDelta, min, max float64) float64 {
	delta := (rng.Float64()*2 - 1) * maxDelta
	return Clamp(prev+delta, min, max)
}

// Clamp confines v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Round returns v rounded to the given number of decimal places, matching the
// precision the dashboard displays (1dp temperatures, 2dp pH, whole percents).
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
