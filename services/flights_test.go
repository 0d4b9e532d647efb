package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{"PT5H30M", "5h 30m"},
		{"PT2H", "2h"},
		{"PT45M", "45m"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseISODuration(tt.iso), "iso=%q", tt.iso)
	}
}

func TestParseFlightOffers(t *testing.T) {
	payload := []byte(`{
		"data": [
			{
				"price": {"grandTotal": "412.50", "currency": "USD"},
				"itineraries": [
					{
						"duration": "PT7H15M",
						"segments": [
							{
								"departure": {"iataCode": "LHR", "at": "2026-05-01T09:00:00"},
								"arrival": {"iataCode": "JFK", "at": "2026-05-01T12:15:00"},
								"carrierCode": "BA",
								"number": "117"
							}
						]
					},
					{
						"duration": "PT6H55M",
						"segments": [
							{
								"departure": {"iataCode": "JFK", "at": "2026-05-10T18:00:00"},
								"arrival": {"iataCode": "LHR", "at": "2026-05-11T06:00:00"},
								"carrierCode": "BA",
								"number": "112"
							}
						]
					}
				],
				"validatingAirlineCodes": ["BA"]
			},
			{
				"price": {"grandTotal": "0", "currency": "USD"},
				"itineraries": [{"duration": "PT1H", "segments": []}]
			},
			{
				"price": {"grandTotal": "99.00", "currency": "USD"},
				"itineraries": []
			}
		]
	}`)

	flights, err := parseFlightOffers(payload)
	require.NoError(t, err)

	// Offers with no itinerary or no usable price are dropped at the boundary.
	require.Len(t, flights, 1)
	f := flights[0]
	assert.Equal(t, 412.50, f.Price)
	assert.Equal(t, "British Airways", f.Airline)
	assert.Equal(t, "BA117", f.FlightNumber)
	assert.Equal(t, "7h 15m", f.Duration)
	assert.Equal(t, 0, f.Stops)
	assert.Equal(t, "6h 55m", f.ReturnDuration)
	assert.Equal(t, "2026-05-10T18:00:00", f.ReturnDepartureTime)
}

func TestParseFlightOffers_Malformed(t *testing.T) {
	_, err := parseFlightOffers([]byte(`{"data": "not a list"`))
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestGenerateFlightsFallback(t *testing.T) {
	q := FlightQuery{
		Origin:        "LHR",
		Destination:   "JFK",
		DepartureDate: "2026-05-01",
		ReturnDate:    "2026-05-10",
		Adults:        2,
	}

	flights := GenerateFlightsFallback(q)
	require.NotEmpty(t, flights)
	for _, f := range flights {
		assert.Greater(t, f.Price, 0.0)
		assert.NotEmpty(t, f.Airline)
		assert.NotEmpty(t, f.DepartureTime)
		assert.NotEmpty(t, f.ReturnDepartureTime)
	}
}

func TestGenerateFlightsFallback_MaxPriceFilter(t *testing.T) {
	q := FlightQuery{
		Origin:        "LHR",
		Destination:   "JFK",
		DepartureDate: "2026-05-01",
		MaxPrice:      400,
	}

	for _, f := range GenerateFlightsFallback(q) {
		assert.LessOrEqual(t, f.Price, 400.0)
	}
}

func TestGenerateFlightsFallback_OneWay(t *testing.T) {
	q := FlightQuery{
		Origin:        "CDG",
		Destination:   "FCO",
		DepartureDate: "2026-05-01",
	}

	flights := GenerateFlightsFallback(q)
	require.NotEmpty(t, flights)
	for _, f := range flights {
		assert.Empty(t, f.ReturnDepartureTime)
		assert.Empty(t, f.ReturnDuration)
	}
}
