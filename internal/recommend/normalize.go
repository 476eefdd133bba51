package recommend

import "math"

// epsilon keeps the denominators positive when every value is equal.
const epsilon = 1e-9

// Signal holds the raw ranking inputs of one candidate.
type Signal struct {
	Price        float64
	DistanceKm   float64
	Availability float64
}

// Normalized holds the rescaled signals of one candidate.
type Normalized struct {
	Price        float64
	Distance     float64
	Availability float64
}

// Normalize rescales every candidate against the bounds of the whole set.
// Price is min-max scaled, distance is divided by the largest distance and
// availability is read as a percentage clamped to [0, 1]. A set with a single
// candidate at a positive distance therefore gets a distance of about 1.
func Normalize(signals []Signal) []Normalized {
	if len(signals) == 0 {
		return nil
	}

	minPrice, maxPrice := signals[0].Price, signals[0].Price
	maxDist := signals[0].DistanceKm
	for _, s := range signals[1:] {
		minPrice = math.Min(minPrice, s.Price)
		maxPrice = math.Max(maxPrice, s.Price)
		maxDist = math.Max(maxDist, s.DistanceKm)
	}

	out := make([]Normalized, len(signals))
	for i, s := range signals {
		out[i] = Normalized{
			Price:        (s.Price - minPrice) / (maxPrice - minPrice + epsilon),
			Distance:     s.DistanceKm / (maxDist + epsilon),
			Availability: clamp(s.Availability/100, 0, 1),
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
