package geo

import (
	"math"
	"testing"
)

func TestHaversineDistanceZero(t *testing.T) {
	if d := HaversineDistance(14.5995, 120.9842, 14.5995, 120.9842); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestHaversineDistanceKnown(t *testing.T) {
	// One degree of latitude is roughly 111.2 km.
	d := HaversineDistance(0, 0, 1, 0)
	if math.Abs(d-111195) > 200 {
		t.Errorf("1 degree latitude = %f m, want ~111195", d)
	}
}

func TestWithinGeofence(t *testing.T) {
	centerLat, centerLng := 40.7128, -74.0060

	// ~150m north of center: 150 / 111195 degrees of latitude.
	outsideLat := centerLat + 150.0/111195.0
	if WithinGeofence(outsideLat, centerLng, centerLat, centerLng, 100) {
		t.Error("fix 150m away classified inside a 100m geofence")
	}

	// ~50m north of center.
	insideLat := centerLat + 50.0/111195.0
	if !WithinGeofence(insideLat, centerLng, centerLat, centerLng, 100) {
		t.Error("fix 50m away classified outside a 100m geofence")
	}
}
