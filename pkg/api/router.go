package api

import (
	"net/http"

	"sitescrape-go/pkg/api/handlers"
	"sitescrape-go/pkg/api/middleware"
	"sitescrape-go/pkg/config"
	"sitescrape-go/pkg/scraper"
	"sitescrape-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds the gin engine for the local scrape backend.
func NewRouter(service *services.ScrapeService, limiter *rate.Limiter) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// Generated files
	router.GET("/static/:name", handlers.StaticFile(service))
	router.GET("/data/:name", handlers.DataFile(service))
	router.GET("/debug-logs", handlers.DebugLogs(service))

	// API routes used by the clients
	api := router.Group("/api")
	{
		api.GET("/plugins", handlers.ListPlugins(service))
		api.POST("/scrape", middleware.RateLimit(limiter), handlers.Scrape(service))
	}

	return router
}

// NewHandler wires the service from cfg and wraps the router with CORS so
// browser clients on other origins can call it.
func NewHandler(cfg *config.Config) http.Handler {
	registry := scraper.NewRegistry(scraper.SamplePlugins(cfg.DevBackend.Plugins)...)
	service := services.NewScrapeService(registry)

	var limiter *rate.Limiter
	if cfg.DevBackend.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.DevBackend.RateLimit), cfg.DevBackend.RateBurst)
	}

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(NewRouter(service, limiter))
}
