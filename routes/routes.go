package routes

import (
	"DentalChart/cache"
	"DentalChart/config"
	"DentalChart/controllers"
	"DentalChart/handlers"
	"DentalChart/middlewares"
	"DentalChart/repositories"
	"DentalChart/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cacheClient *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	chartRepo := repositories.NewChartRepository(cacheClient)
	dentistRepo := repositories.NewDentistRepository(cacheClient)
	patientRepo := repositories.NewPatientRepository(cacheClient)

	chartService := services.NewChartService(chartRepo, dentistRepo)
	dentistService := services.NewDentistService(dentistRepo)
	patientService := services.NewPatientService(patientRepo)

	chartHandler := handlers.NewChartHandler(chartService, cache.NewChartStore(cacheClient))
	dentistHandler := handlers.NewDentistHandler(dentistService)
	patientHandler := handlers.NewPatientHandler(patientService, chartService)

	// Register routes
	controllers.SetupChartRoutes(router, patientHandler, dentistHandler, chartHandler)
	controllers.SetupRootRoute(router)

	return router
}
