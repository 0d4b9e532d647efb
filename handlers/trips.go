package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wayplan/services"
	"wayplan/trip"
)

type destinationRequest struct {
	Name   string  `json:"name" binding:"required"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Nights int     `json:"nights"`
}

type createTripRequest struct {
	Name         string               `json:"name" binding:"required"`
	StartDate    string               `json:"startDate"`
	Destinations []destinationRequest `json:"destinations"`
}

// CreateTripHandler registers a new trip with its destination sequence.
func CreateTripHandler(c *gin.Context) {
	var req createTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var startDate *time.Time
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format. Use YYYY-MM-DD"})
			return
		}
		startDate = &t
	}

	dests := make([]trip.Destination, 0, len(req.Destinations))
	for _, d := range req.Destinations {
		dests = append(dests, trip.Destination{
			Place:  trip.Place{Name: d.Name, Lat: d.Lat, Lng: d.Lng},
			Nights: d.Nights,
		})
	}

	t, err := store.CreateTrip(req.Name, startDate, dests)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GetTripHandler returns the raw trip document.
func GetTripHandler(c *gin.Context) {
	t, err := store.Trip(c.Param("id"))
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ItineraryHandler returns the day/city projection: city blocks with their
// days, scheduled items, hotel occupancy and inter-city transit.
func ItineraryHandler(c *gin.Context) {
	blocks, err := store.Project(c.Param("id"), nil)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cityBlocks": blocks})
}

// AddDestinationHandler appends a destination to the visit order.
func AddDestinationHandler(c *gin.Context) {
	var req destinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	d, err := store.AddDestination(c.Param("id"), trip.Destination{
		Place:  trip.Place{Name: req.Name, Lat: req.Lat, Lng: req.Lng},
		Nights: req.Nights,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// UpdateNightsHandler changes a destination's night count.
func UpdateNightsHandler(c *gin.Context) {
	var req struct {
		Nights *int `json:"nights" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := store.UpdateNights(c.Param("id"), c.Param("destID"), *req.Nights); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveDestinationHandler deletes a destination from the trip.
func RemoveDestinationHandler(c *gin.Context) {
	if err := store.RemoveDestination(c.Param("id"), c.Param("destID")); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateCollectionHandler adds a custom list.
func CreateCollectionHandler(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := store.CreateCollection(c.Param("id"), req.Name); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

type saveItemRequest struct {
	Name            string  `json:"name" binding:"required"`
	Category        string  `json:"category"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	DurationMinutes int     `json:"durationMinutes"`
	DestinationID   string  `json:"destinationId"`
	Source          string  `json:"source"`
}

// SaveItemHandler saves a place into a collection.
func SaveItemHandler(c *gin.Context) {
	var req saveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	it, err := store.SaveItem(c.Param("id"), c.Param("name"), trip.Item{
		Name:            req.Name,
		Category:        req.Category,
		Lat:             req.Lat,
		Lng:             req.Lng,
		DurationMinutes: req.DurationMinutes,
		DestinationID:   req.DestinationID,
		Source:          req.Source,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// DeleteItemHandler removes an item from the trip entirely. This is the
// explicit, user-visible deletion; drag gestures never drop items.
func DeleteItemHandler(c *gin.Context) {
	if err := store.DeleteItem(c.Param("id"), c.Param("itemID")); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type dragRequest struct {
	SourceContainerID      string  `json:"sourceContainerId" binding:"required"`
	SourceIndex            int     `json:"sourceIndex"`
	DestinationContainerID *string `json:"destinationContainerId"`
	DestinationIndex       int     `json:"destinationIndex"`
	DraggedItemID          string  `json:"draggedItemId" binding:"required"`
}

// DragHandler reconciles one drag-end gesture. Container IDs are parsed
// into typed references here, at the boundary; the reconciler never sees
// the string encoding.
func DragHandler(c *gin.Context) {
	var req dragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	source, err := trip.ParseContainer(req.SourceContainerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev := trip.DragEvent{
		Source:      source,
		SourceIndex: req.SourceIndex,
		DestIndex:   req.DestinationIndex,
		ItemID:      req.DraggedItemID,
	}
	if req.DestinationContainerID != nil {
		dest, err := trip.ParseContainer(*req.DestinationContainerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ev.Dest = &dest
	}

	outcome, err := store.Reconcile(c.Param("id"), ev)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

// AutofillHandler populates a day with recommended places near its
// destination. Candidates already saved to the trip are skipped.
func AutofillHandler(c *gin.Context) {
	tripID := c.Param("id")
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day index"})
		return
	}

	t, err := store.Trip(tripID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	dest := t.DestinationForDay(day)
	if dest == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "day index out of range"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	source := "live"
	places, err := services.GetPlacesClient().Recommendations(ctx, "experience", dest.Place.Name, dest.Place.Lat, dest.Place.Lng)
	if err != nil {
		if !services.FallbackEnabled() {
			upstreamError(c, err)
			return
		}
		log.Printf("⚠️  Autofill recommendations failed: %v, using fallback", err)
		places = services.GeneratePlacesFallback("experience", dest.Place.Name, dest.Place.Lat, dest.Place.Lng, 4)
		source = "estimated"
	}

	existing := make(map[string]bool, len(t.Items))
	for _, it := range t.Items {
		existing[it.Name] = true
	}

	added := 0
	for _, p := range places {
		if added >= 3 || existing[p.Name] {
			continue
		}
		it, err := store.SaveItem(tripID, trip.CollectionExperiences, trip.Item{
			Name:            p.Name,
			Category:        trip.CategoryExperience,
			Lat:             p.Lat,
			Lng:             p.Lng,
			DurationMinutes: p.DurationMinutes,
			DestinationID:   dest.ID,
			Source:          "autofill",
		})
		if err != nil {
			abortStoreError(c, err)
			return
		}
		if err := store.ScheduleItem(tripID, it.ID, day, added); err != nil {
			abortStoreError(c, err)
			return
		}
		added++
	}

	c.JSON(http.StatusOK, gin.H{"added": added, "source": source})
}

// OptimizeDayHandler reorders a day's items by geographic proximity.
func OptimizeDayHandler(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day index"})
		return
	}
	if err := store.OptimizeDay(c.Param("id"), day); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type hotelStayRequest struct {
	DestinationID string `json:"destinationId" binding:"required"`
	HotelName     string `json:"hotelName" binding:"required"`
	CheckInDay    *int   `json:"checkInDay" binding:"required"`
	CheckOutDay   *int   `json:"checkOutDay" binding:"required"`
}

// HotelStayHandler records a hotel stay for a destination.
func HotelStayHandler(c *gin.Context) {
	var req hotelStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := store.SetHotelStay(c.Param("id"), req.DestinationID, req.HotelName, *req.CheckInDay, *req.CheckOutDay); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TripPDFHandler renders the projected itinerary as a PDF download.
func TripPDFHandler(c *gin.Context) {
	t, err := store.Trip(c.Param("id"))
	if err != nil {
		abortStoreError(c, err)
		return
	}
	blocks := trip.Project(t, nil)

	pdfBytes, err := services.GenerateItineraryPDF(t, blocks)
	if err != nil {
		log.Printf("❌ PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=wayplan-itinerary.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
