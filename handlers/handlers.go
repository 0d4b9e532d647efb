package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayplan/services"
	"wayplan/trip"
)

// store is the process-wide trip store; set once at startup.
var store *trip.Store

// Init wires the handler package to its store.
func Init(s *trip.Store) {
	store = s
}

// Store exposes the wired store (used by main for diagnostics).
func Store() *trip.Store {
	return store
}

// storeStatus maps domain errors to HTTP status codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, trip.ErrTripNotFound),
		errors.Is(err, trip.ErrItemNotFound),
		errors.Is(err, trip.ErrDestinationNotFound),
		errors.Is(err, trip.ErrCollectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, trip.ErrCollectionExists):
		return http.StatusConflict
	case errors.Is(err, trip.ErrDayOutOfRange),
		errors.Is(err, trip.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func abortStoreError(c *gin.Context, err error) {
	c.JSON(storeStatus(err), gin.H{"error": err.Error()})
}

// upstreamError renders a provider failure with its taxonomy kind so the
// client can show a retryable error state instead of a generic one.
func upstreamError(c *gin.Context, err error) {
	kind := "upstream"
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, services.ErrTimeout):
		kind = "timeout"
		status = http.StatusGatewayTimeout
	case errors.Is(err, services.ErrNotConfigured):
		kind = "not_configured"
		status = http.StatusServiceUnavailable
	case errors.Is(err, services.ErrBadResponse):
		kind = "bad_data"
	}
	c.JSON(status, gin.H{
		"error":     err.Error(),
		"kind":      kind,
		"retryable": true,
	})
}
