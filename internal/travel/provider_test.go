package travel

import (
	"context"
	"testing"
)

func TestHaversineMiles(t *testing.T) {
	// Downtown LA to Santa Monica pier, roughly 14 miles straight-line.
	la := Point{Latitude: 34.0522, Longitude: -118.2437}
	sm := Point{Latitude: 34.0100, Longitude: -118.4960}

	miles := haversineMiles(la, sm)
	if miles < 13 || miles > 15.5 {
		t.Fatalf("expected ~14 miles, got %.2f", miles)
	}
}

func TestHaversineSamePointIsZero(t *testing.T) {
	p := Point{Latitude: 40.7128, Longitude: -74.0060}
	if miles := haversineMiles(p, p); miles != 0 {
		t.Fatalf("expected 0 miles, got %f", miles)
	}
}

func TestHaversineEstimatorRoute(t *testing.T) {
	e := NewHaversineEstimator()
	la := Point{Latitude: 34.0522, Longitude: -118.2437}
	sm := Point{Latitude: 34.0100, Longitude: -118.4960}

	route, err := e.Route(context.Background(), la, sm, "driving")
	if err != nil {
		t.Fatal(err)
	}

	if route.DistanceMiles <= haversineMiles(la, sm) {
		t.Errorf("road factor should inflate distance, got %.2f", route.DistanceMiles)
	}
	if route.DurationMinutes <= 0 {
		t.Errorf("expected positive duration, got %d", route.DurationMinutes)
	}
}
