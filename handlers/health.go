package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wayplan/services"
)

func HealthHandler(c *gin.Context) {
	travel := "fallback"
	if tc := services.GetTravelClient(); tc.Configured() {
		travel = "configured"
	}
	places := "fallback"
	if pc := services.GetPlacesClient(); pc.Configured() {
		places = "configured"
	}
	ai := "fallback"
	if ac := services.GetAIClient(); ac.Configured() {
		ai = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "Wayplan API",
		"travel":  travel,
		"places":  places,
		"ai":      ai,
	})
}
