package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayplan/services"
)

// HotelsHandler serves GET /api/hotels: live offers for a city, resolved
// through the provider's hotel list. City is an IATA city code; dates are
// YYYY-MM-DD. Responses carry a source field so estimated data is never
// silently presented as live.
func HotelsHandler(c *gin.Context) {
	city := strings.ToUpper(strings.TrimSpace(c.Query("city")))
	if len(city) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City must be a 3-character city code (e.g. PAR, NYC)"})
		return
	}

	checkIn := c.Query("checkIn")
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-in date format. Use YYYY-MM-DD"})
		return
	}
	checkOut := c.Query("checkOut")
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-out date format. Use YYYY-MM-DD"})
		return
	}
	if !out.After(in) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Check-out date must be after check-in date"})
		return
	}

	adults, _ := strconv.Atoi(c.DefaultQuery("adults", "1"))
	if adults <= 0 {
		adults = 1
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	source := "live"
	hotels, err := services.GetTravelClient().SearchHotels(ctx, city, checkIn, checkOut, adults)
	if err != nil || len(hotels) == 0 {
		if err != nil && !services.FallbackEnabled() {
			upstreamError(c, err)
			return
		}
		if err != nil {
			log.Printf("⚠️  Hotel search failed: %v, using fallback", err)
		} else {
			log.Println("⚠️  Hotel search returned 0 offers, using fallback")
		}
		hotels = services.GenerateHotelsFallback(city)
		source = "estimated"
	}

	c.JSON(http.StatusOK, gin.H{"hotels": hotels, "source": source})
}

// HotelDetailHandler serves GET /api/hotels/:id. The query string carries
// the attributes the caller already knows; the detail call enriches them.
// The fetch is bounded at 30s, cancelled when a newer detail request from
// the same viewer supersedes it, and failures are reported with their
// taxonomy kind so the client can offer "Try Again".
func HotelDetailHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing hotel ID"})
		return
	}

	basePrice, _ := strconv.ParseFloat(c.DefaultQuery("basePrice", "0"), 64)
	nights, _ := strconv.Atoi(c.DefaultQuery("nights", "1"))
	stars, _ := strconv.Atoi(c.DefaultQuery("stars", "0"))
	distance, _ := strconv.ParseFloat(c.DefaultQuery("distance", "0"), 64)
	lat, _ := strconv.ParseFloat(c.DefaultQuery("lat", "0"), 64)
	lng, _ := strconv.ParseFloat(c.DefaultQuery("lng", "0"), 64)

	var amenities []string
	if raw := c.Query("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				amenities = append(amenities, a)
			}
		}
	}

	q := services.HotelDetailQuery{
		ID:        id,
		Name:      c.Query("name"),
		City:      c.Query("city"),
		BasePrice: basePrice,
		Nights:    nights,
		Stars:     stars,
		Amenities: amenities,
		Distance:  distance,
		Lat:       lat,
		Lng:       lng,
	}

	detail, err := services.GetTravelClient().HotelDetail(c.Request.Context(), c.ClientIP(), q)
	if err != nil {
		// A superseded request is not an error the client should
		// render; the newer request is already on its way.
		if errors.Is(err, context.Canceled) {
			c.Status(http.StatusNoContent)
			return
		}
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
