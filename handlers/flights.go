package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayplan/services"
)

// FlightsHandler serves GET /api/flights. Origin and destination are IATA
// codes; dates are YYYY-MM-DD. Responses carry a source field so estimated
// data is never silently presented as live.
func FlightsHandler(c *gin.Context) {
	origin := strings.ToUpper(strings.TrimSpace(c.Query("origin")))
	destination := strings.ToUpper(strings.TrimSpace(c.Query("destination")))
	if len(origin) != 3 || len(destination) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Airport codes must be exactly 3 characters (e.g. LHR, JFK)"})
		return
	}

	departureDate := c.Query("departureDate")
	if _, err := time.Parse("2006-01-02", departureDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid departure date format. Use YYYY-MM-DD"})
		return
	}
	returnDate := c.Query("returnDate")
	if returnDate != "" {
		ret, err := time.Parse("2006-01-02", returnDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return date format. Use YYYY-MM-DD"})
			return
		}
		dep, _ := time.Parse("2006-01-02", departureDate)
		if !ret.After(dep) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Return date must be after departure date"})
			return
		}
	}

	adults, _ := strconv.Atoi(c.DefaultQuery("adults", "1"))
	if adults <= 0 {
		adults = 1
	}
	children, _ := strconv.Atoi(c.DefaultQuery("children", "0"))
	maxPrice, _ := strconv.ParseFloat(c.DefaultQuery("maxPrice", "0"), 64)

	q := services.FlightQuery{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
		ReturnDate:    returnDate,
		Adults:        adults,
		Children:      children,
		MaxPrice:      maxPrice,
		TravelClass:   c.Query("travelClass"),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	source := "live"
	flights, err := services.GetTravelClient().SearchFlights(ctx, q)
	if err != nil || len(flights) == 0 {
		if err != nil && !services.FallbackEnabled() {
			upstreamError(c, err)
			return
		}
		if err != nil {
			log.Printf("⚠️  Flight search failed: %v, using fallback", err)
		} else {
			log.Println("⚠️  Flight search returned 0 offers, using fallback")
		}
		flights = services.GenerateFlightsFallback(q)
		source = "estimated"
	}

	c.JSON(http.StatusOK, gin.H{"flights": flights, "source": source})
}
