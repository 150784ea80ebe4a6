package settlement

import "math"

// round2 rounds half away from zero to two decimal places. Every monetary
// output field passes through here before it is stored on a line.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// sanitize coerces non-finite inputs to zero. Malformed numeric inputs
// degrade silently instead of surfacing an error.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
