package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHotelDetailFallback_Defaults(t *testing.T) {
	d := GenerateHotelDetailFallback(HotelDetailQuery{
		ID:   "h1",
		Name: "Grand City Hotel",
		City: "Lisbon",
	})

	assert.Equal(t, "estimated", d.Source)
	assert.Equal(t, 120.0, d.PricePerNight)
	assert.Equal(t, 1, d.Nights)
	assert.Equal(t, 120.0, d.TotalPrice)
	assert.Equal(t, 3, d.Stars)
	assert.InDelta(t, 2.7, d.Rating, 0.001)
	assert.NotEmpty(t, d.Amenities)
	assert.Contains(t, d.Description, "Grand City Hotel")
	assert.Contains(t, d.Description, "Lisbon")
}

func TestGenerateHotelDetailFallback_UsesCallerAttributes(t *testing.T) {
	d := GenerateHotelDetailFallback(HotelDetailQuery{
		ID:        "h2",
		Name:      "Luxury Collection",
		City:      "Lisbon",
		BasePrice: 240,
		Nights:    3,
		Stars:     5,
		Amenities: []string{"Spa", "Pool"},
	})

	assert.Equal(t, 240.0, d.PricePerNight)
	assert.Equal(t, 720.0, d.TotalPrice)
	assert.Equal(t, []string{"Spa", "Pool"}, d.Amenities)
	assert.Contains(t, d.Description, "luxury")
}

func TestHotelDetail_UnconfiguredFallsBack(t *testing.T) {
	var c *TravelClient // unconfigured

	d, err := c.HotelDetail(context.Background(), "viewer-1", HotelDetailQuery{ID: "h1", Name: "Inn", City: "Porto"})
	require.NoError(t, err)
	assert.Equal(t, "estimated", d.Source)
}

func TestHotelDetail_UnconfiguredWithoutFallback(t *testing.T) {
	SetFallbackEnabled(false)
	defer SetFallbackEnabled(true)

	var c *TravelClient
	_, err := c.HotelDetail(context.Background(), "viewer-1", HotelDetailQuery{ID: "h1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"4", 4},
		{"4.5", 4.5},
		{"9", 5},  // clamped
		{"", 4.0}, // unknown defaults
		{"garbage", 4.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseRating(tt.in), "in=%q", tt.in)
	}
}

func TestGenerateHotelsFallback(t *testing.T) {
	hotels := GenerateHotelsFallback("Lisbon")
	require.Len(t, hotels, 5)
	for _, h := range hotels {
		assert.Greater(t, h.Price, 0.0)
		assert.Contains(t, h.Location, "Lisbon")
	}
}
