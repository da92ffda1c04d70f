package compare

import (
	"math"
)

const (
	earthRadiusKm    = 6371.0
	earthRadiusMiles = 3958.8
)

// HaversineKm calculates the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	return haversine(lat1, lon1, lat2, lon2, earthRadiusKm)
}

// HaversineMiles calculates the great-circle distance between two points in miles.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	return haversine(lat1, lon1, lat2, lon2, earthRadiusMiles)
}

// DistanceMiles returns the great-circle distance between a and b in miles.
// It is symmetric and exactly zero when a == b.
func DistanceMiles(a, b Coordinates) float64 {
	return HaversineMiles(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func haversine(lat1, lon1, lat2, lon2, radius float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a slightly outside [0,1] for antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return radius * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
