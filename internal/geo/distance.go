// Package geo holds the pure geodesic helpers shared by normalization
// and display formatting.
package geo

import (
	"fmt"
	"math"

	"github.com/forkcast/forkcast/internal/types"
)

// earthRadiusMiles is the mean Earth radius used by the haversine formula.
const earthRadiusMiles = 3958.8

// metersPerMile matches the conversion the provider expects for radii.
const metersPerMile = 1609.34

// Distance returns the great-circle distance between a and b in miles.
// Symmetric and deterministic; identical coordinates yield ~0.
func Distance(a, b types.Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// MilesToMeters converts a search radius to the meters the provider expects.
func MilesToMeters(miles float64) float64 {
	return miles * metersPerMile
}

// FormatDistance renders a distance for display. Sub-0.1 mile values are
// shown in feet, values under ten miles with one decimal, the rest as a
// rounded integer. A nil distance renders as "N/A".
func FormatDistance(miles *float64) string {
	if miles == nil {
		return "N/A"
	}

	m := *miles
	if m < 0.1 {
		return fmt.Sprintf("%d ft", int(math.Round(m*5280)))
	}
	if m < 10 {
		return fmt.Sprintf("%.1f mi", m)
	}
	return fmt.Sprintf("%d mi", int(math.Round(m)))
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
