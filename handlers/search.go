package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayplan/services"
)

type placesRequest struct {
	Query  string  `json:"query" binding:"required"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius"`
}

// PlacesHandler proxies a text search to the places provider.
func PlacesHandler(c *gin.Context) {
	var req placesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	places, err := services.GetPlacesClient().Search(ctx, req.Query, req.Lat, req.Lng, req.Radius)
	if err != nil {
		if !services.FallbackEnabled() {
			upstreamError(c, err)
			return
		}
		log.Printf("⚠️  Place search failed: %v, using fallback", err)
		places = services.GeneratePlacesFallback("experience", req.Query, req.Lat, req.Lng, 6)
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

type quickPlanRestaurantsRequest struct {
	CuisineTypes []string `json:"cuisineTypes" binding:"required"`
	Destination  string   `json:"destination" binding:"required"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
}

// QuickPlanRestaurantsHandler returns restaurant picks grouped by cuisine.
func QuickPlanRestaurantsHandler(c *gin.Context) {
	var req quickPlanRestaurantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	byCuisine, err := services.GetPlacesClient().QuickPlanRestaurants(ctx, req.CuisineTypes, req.Destination, req.Lat, req.Lng)
	if err != nil {
		if !services.FallbackEnabled() {
			upstreamError(c, err)
			return
		}
		log.Printf("⚠️  Quick-plan restaurants failed: %v, using fallback", err)
		byCuisine = make(map[string][]services.PlaceResult, len(req.CuisineTypes))
		for _, cuisine := range req.CuisineTypes {
			byCuisine[cuisine] = services.GeneratePlacesFallback("restaurant", req.Destination, req.Lat, req.Lng, 4)
		}
	}
	c.JSON(http.StatusOK, gin.H{"restaurantsByCuisine": byCuisine})
}

type quickPlanExperiencesRequest struct {
	ActivityTypes []string `json:"activityTypes" binding:"required"`
	Destination   string   `json:"destination" binding:"required"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
}

// QuickPlanExperiencesHandler returns experience picks grouped by activity.
func QuickPlanExperiencesHandler(c *gin.Context) {
	var req quickPlanExperiencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	byType, err := services.GetPlacesClient().QuickPlanExperiences(ctx, req.ActivityTypes, req.Destination, req.Lat, req.Lng)
	if err != nil {
		if !services.FallbackEnabled() {
			upstreamError(c, err)
			return
		}
		log.Printf("⚠️  Quick-plan experiences failed: %v, using fallback", err)
		byType = make(map[string][]services.PlaceResult, len(req.ActivityTypes))
		for _, activity := range req.ActivityTypes {
			byType[activity] = services.GeneratePlacesFallback("experience", req.Destination, req.Lat, req.Lng, 4)
		}
	}
	c.JSON(http.StatusOK, gin.H{"experiencesByType": byType})
}

type recommendationsRequest struct {
	Category    string  `json:"category" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// RecommendationsHandler returns category picks near a destination.
func RecommendationsHandler(c *gin.Context) {
	var req recommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	recs, err := services.GetPlacesClient().Recommendations(ctx, req.Category, req.Destination, req.Lat, req.Lng)
	if err != nil {
		if !services.FallbackEnabled() {
			upstreamError(c, err)
			return
		}
		log.Printf("⚠️  Recommendations failed: %v, using fallback", err)
		recs = services.GeneratePlacesFallback(req.Category, req.Destination, req.Lat, req.Lng, 6)
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
