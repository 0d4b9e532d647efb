package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlacesFallback(t *testing.T) {
	places := GeneratePlacesFallback("restaurant", "Lisbon", 38.7223, -9.1393, 4)
	require.Len(t, places, 4)

	for i, p := range places {
		assert.Equal(t, "restaurant", p.Category)
		assert.Equal(t, "estimated", p.Source)
		assert.Contains(t, p.Name, "Lisbon")
		// Scattered near the center, never exactly on top of it twice.
		assert.InDelta(t, 38.7223, p.Lat, 0.02, "place %d", i)
		assert.InDelta(t, -9.1393, p.Lng, 0.02, "place %d", i)
	}

	// Deterministic for the same inputs.
	again := GeneratePlacesFallback("restaurant", "Lisbon", 38.7223, -9.1393, 4)
	assert.Equal(t, places, again)
}

func TestGeneratePlacesFallback_CountBounds(t *testing.T) {
	assert.Len(t, GeneratePlacesFallback("experience", "Rome", 0, 0, 0), 6)
	assert.Len(t, GeneratePlacesFallback("experience", "Rome", 0, 0, 100), 6)
	assert.Len(t, GeneratePlacesFallback("museum", "Rome", 0, 0, 2), 2)
}
