package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type Hotel struct {
	Name     string  `json:"name"`
	HotelID  string  `json:"hotelId,omitempty"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Location string  `json:"location"`
	Lat      float64 `json:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// HotelDetail is the enriched view served by /api/hotels/:id. The request
// carries the base attributes the caller already has; the detail call adds
// live pricing, amenities and description.
type HotelDetail struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	PricePerNight float64  `json:"pricePerNight"`
	TotalPrice    float64  `json:"totalPrice"`
	Nights        int      `json:"nights"`
	Stars         int      `json:"stars"`
	Rating        float64  `json:"rating"`
	Amenities     []string `json:"amenities"`
	DistanceKm    float64  `json:"distanceKm"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Description   string   `json:"description"`
	Source        string   `json:"source"` // "live" or "estimated"
}

// HotelDetailQuery mirrors the /api/hotels/:id query string.
type HotelDetailQuery struct {
	ID        string
	Name      string
	City      string
	BasePrice float64
	Nights    int
	Stars     int
	Amenities []string
	Distance  float64
	Lat       float64
	Lng       float64
}

// hotelDetailLatest guards detail fetches per viewer: when one viewer opens
// a new hotel, that viewer's previous fetch is cancelled so a stale response
// never lands. Other viewers' in-flight fetches are unaffected.
var hotelDetailLatest LatestGroup

// SearchHotels resolves a city's hotel list and then live offers for it.
func (c *TravelClient) SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, adults int) ([]Hotel, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	hotelIDs, err := c.getHotelIDsByCity(ctx, cityCode)
	if err != nil {
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}
	if len(hotelIDs) == 0 {
		return nil, fmt.Errorf("%w: no hotels found for city %s", ErrBadResponse, cityCode)
	}
	// Cap the ID list to stay under provider rate limits.
	if len(hotelIDs) > 20 {
		hotelIDs = hotelIDs[:20]
	}
	return c.getHotelOffers(ctx, hotelIDs, checkIn, checkOut, adults)
}

type hotelListResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
		GeoCode struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geoCode"`
	} `json:"data"`
}

func (c *TravelClient) getHotelIDsByCity(ctx context.Context, cityCode string) ([]string, error) {
	path := fmt.Sprintf("/v1/reference-data/locations/hotels/by-city?cityCode=%s&radius=5&radiusUnit=KM&hotelSource=ALL",
		url.QueryEscape(cityCode))

	body, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var resp hotelListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: hotel list: %v", ErrBadResponse, err)
	}

	ids := make([]string, 0, len(resp.Data))
	for _, h := range resp.Data {
		if h.HotelID != "" {
			ids = append(ids, h.HotelID)
		}
	}
	return ids, nil
}

type hotelOffersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID  string `json:"hotelId"`
			Name     string `json:"name"`
			CityCode string `json:"cityCode"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Address  struct {
				CityName string `json:"cityName"`
			} `json:"address"`
			Rating string `json:"rating"`
		} `json:"hotel"`
		Available bool `json:"available"`
		Offers    []struct {
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

func (c *TravelClient) getHotelOffers(ctx context.Context, hotelIDs []string, checkIn, checkOut string, adults int) ([]Hotel, error) {
	path := fmt.Sprintf("/v3/shopping/hotel-offers?hotelIds=%s&checkInDate=%s&checkOutDate=%s&adults=%d&roomQuantity=1&currency=USD&bestRateOnly=true",
		url.QueryEscape(strings.Join(hotelIDs, ",")),
		url.QueryEscape(checkIn),
		url.QueryEscape(checkOut),
		adults,
	)

	body, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, fmt.Errorf("hotel offers failed: %w", err)
	}

	var resp hotelOffersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: hotel offers: %v", ErrBadResponse, err)
	}

	hotels := make([]Hotel, 0, len(resp.Data))
	for _, item := range resp.Data {
		if !item.Available || len(item.Offers) == 0 || item.Hotel.Name == "" {
			continue
		}
		price := parsePrice(item.Offers[0].Price.Total)
		if price <= 0 {
			continue
		}
		location := item.Hotel.Address.CityName
		if location == "" {
			location = item.Hotel.CityCode
		}
		hotels = append(hotels, Hotel{
			Name:     item.Hotel.Name,
			HotelID:  item.Hotel.HotelID,
			Price:    price,
			Rating:   parseRating(item.Hotel.Rating),
			Location: location,
			Lat:      item.Hotel.Latitude,
			Lng:      item.Hotel.Longitude,
			Currency: item.Offers[0].Price.Currency,
		})
	}
	return hotels, nil
}

// HotelDetail fetches the enriched hotel view. The call is bounded at 30s,
// guarded by the latest-request-wins helper scoped to the given viewer, and
// falls back to a detail synthesized from the caller-supplied attributes
// when the provider is unavailable and fallback is allowed.
func (c *TravelClient) HotelDetail(parent context.Context, viewer string, q HotelDetailQuery) (*HotelDetail, error) {
	ctx, isLatest, cancel := hotelDetailLatest.Begin(parent, viewer, requestTimeout)
	defer cancel()

	if c.Configured() {
		detail, err := c.fetchHotelDetail(ctx, q)
		if err == nil {
			if !isLatest() {
				return nil, context.Canceled
			}
			detail.Source = "live"
			return detail, nil
		}
		if !FallbackEnabled() {
			return nil, err
		}
	} else if !FallbackEnabled() {
		return nil, ErrNotConfigured
	}

	if !isLatest() {
		return nil, context.Canceled
	}
	d := GenerateHotelDetailFallback(q)
	return d, nil
}

func (c *TravelClient) fetchHotelDetail(ctx context.Context, q HotelDetailQuery) (*HotelDetail, error) {
	path := fmt.Sprintf("/v3/shopping/hotel-offers?hotelIds=%s&adults=2&roomQuantity=1&currency=USD&bestRateOnly=true",
		url.QueryEscape(q.ID))

	body, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, fmt.Errorf("hotel detail failed: %w", err)
	}

	var resp hotelOffersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: hotel detail: %v", ErrBadResponse, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Offers) == 0 {
		return nil, fmt.Errorf("%w: no offers for hotel %s", ErrBadResponse, q.ID)
	}

	item := resp.Data[0]
	perNight := parsePrice(item.Offers[0].Price.Total)
	nights := q.Nights
	if nights <= 0 {
		nights = 1
	}
	name := item.Hotel.Name
	if name == "" {
		name = q.Name
	}
	return &HotelDetail{
		ID:            q.ID,
		Name:          name,
		City:          q.City,
		PricePerNight: perNight,
		TotalPrice:    perNight * float64(nights),
		Nights:        nights,
		Stars:         q.Stars,
		Rating:        parseRating(item.Hotel.Rating),
		Amenities:     q.Amenities,
		DistanceKm:    q.Distance,
		Lat:           item.Hotel.Latitude,
		Lng:           item.Hotel.Longitude,
		Description:   hotelDescription(name, q.City, q.Stars),
	}, nil
}

// GenerateHotelDetailFallback builds an estimated detail view from the
// attributes the caller already has.
func GenerateHotelDetailFallback(q HotelDetailQuery) *HotelDetail {
	nights := q.Nights
	if nights <= 0 {
		nights = 1
	}
	price := q.BasePrice
	if price <= 0 {
		price = 120
	}
	amenities := q.Amenities
	if len(amenities) == 0 {
		amenities = []string{"Free WiFi", "Breakfast", "Air conditioning"}
	}
	stars := q.Stars
	if stars <= 0 {
		stars = 3
	}
	return &HotelDetail{
		ID:            q.ID,
		Name:          q.Name,
		City:          q.City,
		PricePerNight: price,
		TotalPrice:    price * float64(nights),
		Nights:        nights,
		Stars:         stars,
		Rating:        float64(stars) - 0.3,
		Amenities:     amenities,
		DistanceKm:    q.Distance,
		Lat:           q.Lat,
		Lng:           q.Lng,
		Description:   hotelDescription(q.Name, q.City, stars),
		Source:        "estimated",
	}
}

// GenerateHotelsFallback produces plausible hotel options for a city.
func GenerateHotelsFallback(city string) []Hotel {
	return []Hotel{
		{Name: "Grand City Hotel", Price: 150, Rating: 4.5, Location: "City Center, " + city, Currency: "USD"},
		{Name: "Business Inn", Price: 95, Rating: 4.2, Location: "Business District, " + city, Currency: "USD"},
		{Name: "Boutique Residence", Price: 120, Rating: 4.4, Location: "Arts District, " + city, Currency: "USD"},
		{Name: "Economy Suites", Price: 65, Rating: 3.9, Location: "Near Airport, " + city, Currency: "USD"},
		{Name: "Luxury Collection", Price: 240, Rating: 4.7, Location: "Historic Center, " + city, Currency: "USD"},
	}
}

func hotelDescription(name, city string, stars int) string {
	tier := "comfortable"
	switch {
	case stars >= 5:
		tier = "luxury"
	case stars == 4:
		tier = "upscale"
	}
	if city == "" {
		return fmt.Sprintf("%s is a %s hotel with well-reviewed rooms and service.", name, tier)
	}
	return fmt.Sprintf("%s is a %s hotel in %s, well placed for exploring the city.", name, tier, city)
}

func parseRating(s string) float64 {
	if s == "" {
		return 4.0
	}
	var r float64
	fmt.Sscanf(s, "%f", &r)
	if r <= 0 {
		return 4.0
	}
	if r > 5 {
		r = 5
	}
	return r
}
