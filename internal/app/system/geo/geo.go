// Package geo provides great-circle distance math for proximity filtering and
// straight-line route estimates. Distances are meters throughout; callers
// that need kilometres convert at their own boundary.
package geo

import (
	"math"

	"github.com/tracknarino/backend/internal/domain/models"
)

// EarthRadiusMeters is the mean Earth radius used by every haversine call
// site. The legacy backend used 6371 km in one spot and 6371000 m in another;
// one constant here keeps the two proximity features consistent.
const EarthRadiusMeters = 6371000.0

// fallbackSpeedKmh is the assumed average speed for duration estimates when
// no road route is available.
const fallbackSpeedKmh = 60.0

// DistanceMeters returns the haversine great-circle distance between a and b.
func DistanceMeters(a, b models.Coord) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// DistanceKm returns DistanceMeters converted to kilometres.
func DistanceKm(a, b models.Coord) float64 {
	return DistanceMeters(a, b) / 1000
}

// EstimateDurationMinutes returns a straight-line travel time estimate for
// the given distance, assuming 60 km/h. Used when the routing provider is
// unavailable.
func EstimateDurationMinutes(meters float64) int {
	km := meters / 1000
	return int(math.Round(km / fallbackSpeedKmh * 60))
}
