package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"wayplan/handlers"
	"wayplan/services"
	"wayplan/trip"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	services.InitPolicy()
	services.InitTravel()
	services.InitPlaces()
	services.InitAI()

	handlers.Init(trip.NewStore())

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	// CORS: allow configured frontend origins
	frontendURLs := os.Getenv("FRONTEND_URL")
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if frontendURLs != "" {
		for _, u := range strings.Split(frontendURLs, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.Use(rateLimiter())
	{
		api.GET("/health", handlers.HealthHandler)

		// Trip model and itinerary builder
		api.POST("/trips", handlers.CreateTripHandler)
		api.GET("/trips/:id", handlers.GetTripHandler)
		api.GET("/trips/:id/itinerary", handlers.ItineraryHandler)
		api.POST("/trips/:id/destinations", handlers.AddDestinationHandler)
		api.PATCH("/trips/:id/destinations/:destID", handlers.UpdateNightsHandler)
		api.DELETE("/trips/:id/destinations/:destID", handlers.RemoveDestinationHandler)
		api.POST("/trips/:id/collections", handlers.CreateCollectionHandler)
		api.POST("/trips/:id/collections/:name/items", handlers.SaveItemHandler)
		api.DELETE("/trips/:id/items/:itemID", handlers.DeleteItemHandler)
		api.POST("/trips/:id/drag", handlers.DragHandler)
		api.POST("/trips/:id/days/:day/autofill", handlers.AutofillHandler)
		api.POST("/trips/:id/days/:day/optimize", handlers.OptimizeDayHandler)
		api.POST("/trips/:id/hotel-stay", handlers.HotelStayHandler)
		api.GET("/trips/:id/pdf", handlers.TripPDFHandler)

		// Search and provider proxies
		api.POST("/places", handlers.PlacesHandler)
		api.POST("/quick-plan/restaurants", handlers.QuickPlanRestaurantsHandler)
		api.POST("/quick-plan/experiences", handlers.QuickPlanExperiencesHandler)
		api.POST("/recommendations", handlers.RecommendationsHandler)
		api.GET("/flights", handlers.FlightsHandler)
		api.GET("/hotels", handlers.HotelsHandler)
		api.GET("/hotels/:id", handlers.HotelDetailHandler)

		// AI assistant
		api.POST("/ai/chat", handlers.ChatStreamHandler)
		api.POST("/chat", handlers.ChatHandler)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Wayplan backend starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// rateLimiter applies a process-wide token bucket to the API group.
func rateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(50), 100)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
