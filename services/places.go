package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
)

// PlaceResult is the normalized place shape shared by search, quick-plan
// and recommendation responses.
type PlaceResult struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	Rating          float64 `json:"rating,omitempty"`
	Address         string  `json:"address,omitempty"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Source          string  `json:"source,omitempty"`
}

// PlacesClient talks to the places provider.
type PlacesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var placesClient *PlacesClient

func InitPlaces() {
	baseURL := os.Getenv("PLACES_API_URL")
	if baseURL == "" {
		baseURL = "https://places.googleapis.com/v1"
	}
	placesClient = &PlacesClient{
		apiKey:  os.Getenv("PLACES_API_KEY"),
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
	if placesClient.apiKey == "" {
		log.Println("⚠️  PLACES_API_KEY not set, place search will use fallback data")
	} else {
		log.Println("✅ Places API configured")
	}
}

func GetPlacesClient() *PlacesClient {
	return placesClient
}

func (c *PlacesClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

type placesSearchResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		Location struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
		Rating           float64 `json:"rating"`
		FormattedAddress string  `json:"formattedAddress"`
		PrimaryType      string  `json:"primaryType"`
	} `json:"places"`
}

// Search runs a text query biased around the given coordinates.
func (c *PlacesClient) Search(ctx context.Context, query string, lat, lng, radius float64) ([]PlaceResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload := map[string]interface{}{
		"textQuery": query,
	}
	if lat != 0 || lng != 0 {
		if radius <= 0 {
			radius = 5000
		}
		payload["locationBias"] = map[string]interface{}{
			"circle": map[string]interface{}{
				"center": map[string]float64{"latitude": lat, "longitude": lng},
				"radius": radius,
			},
		}
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", "places.id,places.displayName,places.location,places.rating,places.formattedAddress,places.primaryType")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: places API error (%d): %s", ErrUnavailable, resp.StatusCode, string(respBody))
	}

	var parsed placesSearchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: places response: %v", ErrBadResponse, err)
	}

	results := make([]PlaceResult, 0, len(parsed.Places))
	for _, p := range parsed.Places {
		// Boundary validation: drop entries without a name or
		// coordinates instead of passing them through.
		if p.DisplayName.Text == "" || (p.Location.Latitude == 0 && p.Location.Longitude == 0) {
			continue
		}
		results = append(results, PlaceResult{
			ID:       p.ID,
			Name:     p.DisplayName.Text,
			Category: p.PrimaryType,
			Lat:      p.Location.Latitude,
			Lng:      p.Location.Longitude,
			Rating:   p.Rating,
			Address:  p.FormattedAddress,
			Source:   "live",
		})
	}
	return results, nil
}

// QuickPlanRestaurants groups restaurant picks by requested cuisine type.
func (c *PlacesClient) QuickPlanRestaurants(ctx context.Context, cuisineTypes []string, destination string, lat, lng float64) (map[string][]PlaceResult, error) {
	out := make(map[string][]PlaceResult, len(cuisineTypes))
	for _, cuisine := range cuisineTypes {
		query := fmt.Sprintf("best %s restaurants in %s", cuisine, destination)
		places, err := c.Search(ctx, query, lat, lng, 8000)
		if err != nil {
			return nil, fmt.Errorf("quick-plan %s: %w", cuisine, err)
		}
		for i := range places {
			places[i].Category = "restaurant"
		}
		out[cuisine] = limitPlaces(places, 6)
	}
	return out, nil
}

// QuickPlanExperiences groups experience picks by requested activity type.
func (c *PlacesClient) QuickPlanExperiences(ctx context.Context, activityTypes []string, destination string, lat, lng float64) (map[string][]PlaceResult, error) {
	out := make(map[string][]PlaceResult, len(activityTypes))
	for _, activity := range activityTypes {
		query := fmt.Sprintf("%s in %s", activity, destination)
		places, err := c.Search(ctx, query, lat, lng, 10000)
		if err != nil {
			return nil, fmt.Errorf("quick-plan %s: %w", activity, err)
		}
		for i := range places {
			places[i].Category = "experience"
		}
		out[activity] = limitPlaces(places, 6)
	}
	return out, nil
}

// Recommendations returns category picks near the given point.
func (c *PlacesClient) Recommendations(ctx context.Context, category, destination string, lat, lng float64) ([]PlaceResult, error) {
	query := fmt.Sprintf("recommended %s in %s", category, destination)
	places, err := c.Search(ctx, query, lat, lng, 10000)
	if err != nil {
		return nil, err
	}
	for i := range places {
		places[i].Category = category
	}
	return limitPlaces(places, 10), nil
}

func limitPlaces(places []PlaceResult, n int) []PlaceResult {
	if len(places) > n {
		return places[:n]
	}
	return places
}

// ─── Fallback ─────────────────────────────────────────────────────────────────

// GeneratePlacesFallback synthesizes plausible places scattered around the
// given point so the UI has content when the provider is unreachable.
func GeneratePlacesFallback(category, destination string, lat, lng float64, count int) []PlaceResult {
	templates := map[string][]string{
		"restaurant": {"%s Kitchen", "The %s Table", "%s Bistro", "Old Town %s", "%s Street Food Hall", "Casa %s"},
		"experience": {"%s Walking Tour", "%s History Museum", "%s Viewpoint", "%s Botanical Garden", "%s Market", "%s River Cruise"},
	}
	names, ok := templates[category]
	if !ok {
		names = []string{"%s Landmark", "%s Gallery", "%s Park", "%s Quarter", "%s Plaza", "%s Workshop"}
	}
	if count <= 0 || count > len(names) {
		count = len(names)
	}

	out := make([]PlaceResult, 0, count)
	for i := 0; i < count; i++ {
		// Scatter deterministically within ~2km of the center.
		angle := float64(i) * 2 * math.Pi / float64(count)
		out = append(out, PlaceResult{
			ID:              fmt.Sprintf("fallback-%s-%d", category, i),
			Name:            fmt.Sprintf(names[i%len(names)], destination),
			Category:        category,
			Lat:             lat + 0.018*math.Sin(angle),
			Lng:             lng + 0.018*math.Cos(angle),
			Rating:          4.0 + 0.1*float64(i%5),
			Address:         destination,
			DurationMinutes: 60 + 30*(i%3),
			Source:          "estimated",
		})
	}
	return out
}
