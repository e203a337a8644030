package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomEstimator_Bounds(t *testing.T) {
	e := NewRandomEstimator()

	for i := 0; i < 1000; i++ {
		km := e.EstimateKm("sydney", "melbourne")
		assert.GreaterOrEqual(t, km, 1.0)
		assert.Less(t, km, 50.0)
	}
}

func TestHaversineEstimator_KnownCities(t *testing.T) {
	e := NewHaversineEstimator(NewStaticGeocoder(DefaultCityTable()), 100)

	km := e.EstimateKm("Sydney", "Melbourne")
	assert.InDelta(t, 713, km, 5)

	assert.Equal(t, 0.0, e.EstimateKm("Sydney", "Sydney"))
}

func TestHaversineEstimator_UnknownLocationFallsBack(t *testing.T) {
	e := NewHaversineEstimator(NewStaticGeocoder(DefaultCityTable()), 100)

	assert.Equal(t, 100.0, e.EstimateKm("Sydney", "Wagga Wagga"))
	assert.Equal(t, 100.0, e.EstimateKm("", "Melbourne"))
}

func TestStaticGeocoder_NormalizesInput(t *testing.T) {
	g := NewStaticGeocoder(DefaultCityTable())

	lat, lng, ok := g.Lookup("Sydney, NSW")
	require.True(t, ok)
	assert.InDelta(t, -33.8688, lat, 0.0001)
	assert.InDelta(t, 151.2093, lng, 0.0001)

	_, _, ok = g.Lookup("  GOLD COAST , QLD")
	assert.True(t, ok)

	_, _, ok = g.Lookup("Atlantis")
	assert.False(t, ok)
}
