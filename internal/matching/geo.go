// internal/matching/geo.go

package matching

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// DistanceEstimator approximates the distance in kilometers between two
// free-text locations. The pipeline depends only on this interface so the
// strategy can be swapped without touching the scorer.
type DistanceEstimator interface {
	EstimateKm(locationA, locationB string) float64
}

// RandomEstimator is the development stand-in: a pseudo-random distance
// in [1,50). Do not use it where ranking stability matters.
type RandomEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomEstimator creates the placeholder estimator
func NewRandomEstimator() *RandomEstimator {
	return &RandomEstimator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// EstimateKm returns a pseudo-random distance in [1,50)
func (e *RandomEstimator) EstimateKm(_, _ string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return 1 + e.rng.Float64()*49
}

// Geocoder resolves a free-text location to coordinates
type Geocoder interface {
	Lookup(location string) (lat, lng float64, ok bool)
}

// HaversineEstimator computes the great-circle distance between geocoded
// locations. Locations the geocoder cannot resolve fall back to a fixed
// estimate so unknown towns are not silently treated as co-located.
type HaversineEstimator struct {
	geocoder   Geocoder
	fallbackKm float64
}

// NewHaversineEstimator creates a deterministic estimator over a geocoder
func NewHaversineEstimator(geocoder Geocoder, fallbackKm float64) *HaversineEstimator {
	return &HaversineEstimator{geocoder: geocoder, fallbackKm: fallbackKm}
}

// EstimateKm returns the Haversine distance between the two locations
func (e *HaversineEstimator) EstimateKm(locationA, locationB string) float64 {
	lat1, lng1, ok1 := e.geocoder.Lookup(locationA)
	lat2, lng2, ok2 := e.geocoder.Lookup(locationB)
	if !ok1 || !ok2 {
		return e.fallbackKm
	}
	return haversineKm(lat1, lng1, lat2, lng2)
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371 // km

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// StaticGeocoder resolves locations from a fixed city table. Matching is
// case-insensitive on the first comma-separated segment, so
// "Sydney, NSW" resolves the same as "sydney".
type StaticGeocoder struct {
	cities map[string][2]float64
}

// NewStaticGeocoder creates a geocoder over the given city table
func NewStaticGeocoder(cities map[string][2]float64) *StaticGeocoder {
	normalized := make(map[string][2]float64, len(cities))
	for name, coords := range cities {
		normalized[normalizeLocation(name)] = coords
	}
	return &StaticGeocoder{cities: normalized}
}

// DefaultCityTable covers the launch cities
func DefaultCityTable() map[string][2]float64 {
	return map[string][2]float64{
		"sydney":     {-33.8688, 151.2093},
		"melbourne":  {-37.8136, 144.9631},
		"brisbane":   {-27.4698, 153.0251},
		"perth":      {-31.9523, 115.8613},
		"adelaide":   {-34.9285, 138.6007},
		"canberra":   {-35.2809, 149.1300},
		"hobart":     {-42.8821, 147.3272},
		"darwin":     {-12.4634, 130.8456},
		"gold coast": {-28.0167, 153.4000},
		"newcastle":  {-32.9283, 151.7817},
	}
}

// Lookup resolves a free-text location against the city table
func (g *StaticGeocoder) Lookup(location string) (float64, float64, bool) {
	coords, ok := g.cities[normalizeLocation(location)]
	if !ok {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}

func normalizeLocation(location string) string {
	if i := strings.Index(location, ","); i >= 0 {
		location = location[:i]
	}
	return strings.ToLower(strings.TrimSpace(location))
}
