package services

import "math"

// FinalPrice computes a fare from the five multiplicative price inputs. A nil
// factor means "no adjustment" and defaults to the neutral multiplier 1; a
// nil base fare defaults to 0. The product is rounded to 2 fractional digits,
// half-up. Every pricing path in the system must go through this function so
// persisted and synthesized quotes can never disagree on rounding.
func FinalPrice(baseFare, vehicleFactor, seatFactor, floorFactor, occasionFactor *float64) float64 {
	price := valueOr(baseFare, 0) *
		valueOr(vehicleFactor, 1) *
		valueOr(seatFactor, 1) *
		valueOr(floorFactor, 1) *
		valueOr(occasionFactor, 1)

	return roundHalfUp(price)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
