package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Flight struct {
	Price               float64 `json:"price"`
	Airline             string  `json:"airline"`
	AirlineCode         string  `json:"airlineCode,omitempty"`
	FlightNumber        string  `json:"flightNumber,omitempty"`
	DepartureTime       string  `json:"departureTime"`
	ArrivalTime         string  `json:"arrivalTime"`
	Duration            string  `json:"duration"`
	Stops               int     `json:"stops"`
	ReturnDepartureTime string  `json:"returnDepartureTime,omitempty"`
	ReturnArrivalTime   string  `json:"returnArrivalTime,omitempty"`
	ReturnDuration      string  `json:"returnDuration,omitempty"`
	ReturnStops         int     `json:"returnStops,omitempty"`
	TravelClass         string  `json:"travelClass,omitempty"`
	Currency            string  `json:"currency,omitempty"`
}

// FlightQuery mirrors the /api/flights query string.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Children      int
	MaxPrice      float64
	TravelClass   string
}

// SearchFlights queries the provider's flight-offers API.
func (c *TravelClient) SearchFlights(ctx context.Context, q FlightQuery) ([]Flight, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	path := fmt.Sprintf(
		"/v2/shopping/flight-offers?originLocationCode=%s&destinationLocationCode=%s"+
			"&departureDate=%s&adults=%d&max=10&currencyCode=USD",
		url.QueryEscape(q.Origin),
		url.QueryEscape(q.Destination),
		url.QueryEscape(q.DepartureDate),
		q.Adults,
	)
	if q.ReturnDate != "" {
		path += "&returnDate=" + url.QueryEscape(q.ReturnDate)
	}
	if q.Children > 0 {
		path += fmt.Sprintf("&children=%d", q.Children)
	}
	if q.MaxPrice > 0 {
		path += fmt.Sprintf("&maxPrice=%d", int(q.MaxPrice))
	}
	if q.TravelClass != "" {
		path += "&travelClass=" + url.QueryEscape(strings.ToUpper(q.TravelClass))
	}

	body, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	flights, err := parseFlightOffers(body)
	if err != nil {
		return nil, err
	}
	if q.TravelClass != "" {
		for i := range flights {
			flights[i].TravelClass = strings.ToUpper(q.TravelClass)
		}
	}
	return flights, nil
}

type flightOffersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightItinerary struct {
	Duration string `json:"duration"`
	Segments []struct {
		Departure struct {
			IataCode string `json:"iataCode"`
			At       string `json:"at"`
		} `json:"departure"`
		Arrival struct {
			IataCode string `json:"iataCode"`
			At       string `json:"at"`
		} `json:"arrival"`
		CarrierCode string `json:"carrierCode"`
		Number      string `json:"number"`
	} `json:"segments"`
}

type flightOffer struct {
	Price struct {
		GrandTotal string `json:"grandTotal"`
		Currency   string `json:"currency"`
	} `json:"price"`
	Itineraries            []flightItinerary `json:"itineraries"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes"`
}

func parseFlightOffers(data []byte) ([]Flight, error) {
	var resp flightOffersResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: flight offers: %v", ErrBadResponse, err)
	}

	flights := make([]Flight, 0, len(resp.Data))
	for _, offer := range resp.Data {
		// Validate at the boundary: offers without an itinerary or a
		// usable price are dropped rather than merged into state.
		if len(offer.Itineraries) < 1 {
			continue
		}
		price := parsePrice(offer.Price.GrandTotal)
		if price <= 0 {
			continue
		}

		outbound := offer.Itineraries[0]
		airlineCode := ""
		if len(outbound.Segments) > 0 {
			airlineCode = outbound.Segments[0].CarrierCode
		} else if len(offer.ValidatingAirlineCodes) > 0 {
			airlineCode = offer.ValidatingAirlineCodes[0]
		}

		f := Flight{
			Price:       price,
			Airline:     airlineName(airlineCode),
			AirlineCode: airlineCode,
			Currency:    offer.Price.Currency,
			Stops:       maxInt(0, len(outbound.Segments)-1),
			Duration:    parseISODuration(outbound.Duration),
		}
		if len(outbound.Segments) > 0 {
			f.DepartureTime = outbound.Segments[0].Departure.At
			f.ArrivalTime = outbound.Segments[len(outbound.Segments)-1].Arrival.At
			f.FlightNumber = airlineCode + outbound.Segments[0].Number
		}
		if len(offer.Itineraries) >= 2 {
			ret := offer.Itineraries[1]
			f.ReturnStops = maxInt(0, len(ret.Segments)-1)
			f.ReturnDuration = parseISODuration(ret.Duration)
			if len(ret.Segments) > 0 {
				f.ReturnDepartureTime = ret.Segments[0].Departure.At
				f.ReturnArrivalTime = ret.Segments[len(ret.Segments)-1].Arrival.At
			}
		}
		flights = append(flights, f)
	}
	return flights, nil
}

// ─── Fallback ─────────────────────────────────────────────────────────────────

// GenerateFlightsFallback produces plausible flight options when the
// provider is unconfigured or failing. Responses built from it are labeled
// source=estimated.
func GenerateFlightsFallback(q FlightQuery) []Flight {
	type routeInfo struct {
		basePrice float64
		duration  int // minutes
	}
	routes := map[string]routeInfo{
		"LHR-JFK": {450, 480}, "JFK-LHR": {450, 480},
		"LHR-CDG": {80, 75}, "CDG-LHR": {80, 75},
		"LHR-NRT": {650, 720}, "NRT-LHR": {650, 720},
		"JFK-NRT": {700, 840}, "NRT-JFK": {700, 840},
		"CDG-FCO": {110, 125}, "FCO-CDG": {110, 125},
		"FRA-IST": {150, 165}, "IST-FRA": {150, 165},
		"NRT-KIX": {90, 85}, "KIX-NRT": {90, 85},
		"SIN-BKK": {120, 150}, "BKK-SIN": {120, 150},
	}

	info, ok := routes[q.Origin+"-"+q.Destination]
	if !ok {
		info = routeInfo{350, 240}
	}

	type airlineOption struct {
		name     string
		priceMod float64
		stops    int
	}
	options := []airlineOption{
		{"Japan Airlines", 1.00, 0},
		{"Lufthansa", 1.15, 0},
		{"Emirates", 1.30, 0},
		{"Wizz Air", 0.65, 1},
		{"FlyDubai", 0.80, 1},
	}

	depDate, _ := time.Parse("2006-01-02", q.DepartureDate)
	retDate, _ := time.Parse("2006-01-02", q.ReturnDate)

	flights := make([]Flight, 0, len(options))
	for i, opt := range options {
		price := info.basePrice * opt.priceMod
		price = float64(int(price/5) * 5)
		if q.MaxPrice > 0 && price > q.MaxPrice {
			continue
		}

		dur := info.duration
		if opt.stops > 0 {
			dur += 90
		}

		depTime := time.Date(depDate.Year(), depDate.Month(), depDate.Day(), 6+i*3, 0, 0, 0, time.UTC)
		arrTime := depTime.Add(time.Duration(dur) * time.Minute)

		f := Flight{
			Price:         price,
			Airline:       opt.name,
			DepartureTime: depTime.Format(time.RFC3339),
			ArrivalTime:   arrTime.Format(time.RFC3339),
			Duration:      formatDurationMin(dur),
			Stops:         opt.stops,
			TravelClass:   strings.ToUpper(q.TravelClass),
			Currency:      "USD",
		}
		if q.ReturnDate != "" {
			retDepTime := time.Date(retDate.Year(), retDate.Month(), retDate.Day(), 8+i*2, 0, 0, 0, time.UTC)
			retArrTime := retDepTime.Add(time.Duration(dur) * time.Minute)
			f.ReturnDepartureTime = retDepTime.Format(time.RFC3339)
			f.ReturnArrivalTime = retArrTime.Format(time.RFC3339)
			f.ReturnDuration = formatDurationMin(dur)
			f.ReturnStops = opt.stops
		}
		flights = append(flights, f)
	}
	return flights
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// parseISODuration converts ISO 8601 durations (PT5H30M) to "5h 30m".
func parseISODuration(iso string) string {
	if iso == "" {
		return ""
	}
	iso = strings.TrimPrefix(iso, "PT")
	result := ""
	hIdx := strings.Index(iso, "H")
	mIdx := strings.Index(iso, "M")
	if hIdx >= 0 {
		result += iso[:hIdx] + "h"
		iso = iso[hIdx+1:]
		mIdx = strings.Index(iso, "M")
	}
	if mIdx >= 0 && mIdx < len(iso) {
		if result != "" {
			result += " "
		}
		result += iso[:mIdx] + "m"
	}
	return result
}

func formatDurationMin(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}

func parsePrice(s string) float64 {
	var price float64
	fmt.Sscanf(s, "%f", &price)
	return price
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// airlineName returns the full airline name for an IATA code.
func airlineName(code string) string {
	names := map[string]string{
		"TK": "Turkish Airlines",
		"LH": "Lufthansa",
		"AF": "Air France",
		"BA": "British Airways",
		"EK": "Emirates",
		"QR": "Qatar Airways",
		"FR": "Ryanair",
		"U2": "EasyJet",
		"W6": "Wizz Air",
		"UA": "United Airlines",
		"AA": "American Airlines",
		"DL": "Delta Air Lines",
		"KL": "KLM",
		"IB": "Iberia",
		"SQ": "Singapore Airlines",
		"CX": "Cathay Pacific",
		"NH": "ANA",
		"JL": "Japan Airlines",
		"EY": "Etihad Airways",
	}
	if name, ok := names[code]; ok {
		return name
	}
	if code != "" {
		return code + " Airlines"
	}
	return "Unknown Airline"
}
