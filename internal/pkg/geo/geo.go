package geo

import "math"

const earthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance between two
// coordinates in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// WithinGeofence reports whether (lat, lng) lies inside the circular
// geofence centered at (centerLat, centerLng) with the given radius in
// meters.
func WithinGeofence(lat, lng, centerLat, centerLng, radiusMeters float64) bool {
	return HaversineDistance(lat, lng, centerLat, centerLng) <= radiusMeters
}
