package travel

import (
	"context"
	"math"
)

// Point is a WGS84 coordinate.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Step is one leg of a suggested route.
type Step struct {
	Instruction string  `json:"instruction"`
	Miles       float64 `json:"miles"`
}

// Route is the black-box answer the decision engine's callers enrich gigs
// with before scoring.
type Route struct {
	DistanceMiles   float64 `json:"distance_miles"`
	DurationMinutes int     `json:"duration_minutes"`
	Steps           []Step  `json:"steps,omitempty"`
}

// Provider estimates travel between two points for a given mode ("driving",
// "cycling", "walking"). Implementations own their own retries and timeouts;
// the engine never calls a Provider.
type Provider interface {
	Route(ctx context.Context, origin, destination Point, mode string) (Route, error)
}

// HaversineEstimator is the offline fallback Provider: great-circle distance
// inflated by a road factor, at an assumed average speed.
type HaversineEstimator struct {
	RoadFactor float64 // ratio of road distance to straight-line, ~1.3
	SpeedMPH   float64 // assumed average travel speed
}

func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{RoadFactor: 1.3, SpeedMPH: 25}
}

func (e *HaversineEstimator) Route(_ context.Context, origin, destination Point, _ string) (Route, error) {
	miles := haversineMiles(origin, destination) * e.RoadFactor
	minutes := 0
	if e.SpeedMPH > 0 {
		minutes = int(math.Round(miles / e.SpeedMPH * 60))
	}
	return Route{DistanceMiles: miles, DurationMinutes: minutes}, nil
}

const earthRadiusMiles = 3958.8

func haversineMiles(a, b Point) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
