// Package geo computes distances between coordinates on the Earth's surface.
package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/jftuga/geodist"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Point is a coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether both components are finite numbers. Range is not
// checked; out-of-range values still produce a formula result.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Vincenty returns the WGS-84 ellipsoidal distance between a and b in
// kilometers. Nearly antipodal points where the iteration fails to converge
// fall back to Haversine.
func Vincenty(a, b Point) float64 {
	if a == b {
		return 0
	}
	_, km, err := geodist.VincentyDistance(
		geodist.Coord{Lat: a.Lat, Lon: a.Lon},
		geodist.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	if err != nil {
		return Haversine(a, b)
	}
	return km
}

// Method selects the distance formula.
type Method string

const (
	MethodHaversine Method = "haversine"
	MethodVincenty  Method = "vincenty"
)

// DistanceFunc computes the distance between two points in kilometers.
type DistanceFunc func(a, b Point) float64

// ParseMethod accepts "haversine" (also the empty string) and "vincenty".
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodHaversine:
		return MethodHaversine, nil
	case MethodVincenty:
		return MethodVincenty, nil
	default:
		return "", fmt.Errorf("unknown distance method: %s", s)
	}
}

// Func returns the DistanceFunc implementing m. Unknown methods get Haversine.
func (m Method) Func() DistanceFunc {
	if m == MethodVincenty {
		return Vincenty
	}
	return Haversine
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
