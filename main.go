package main

import (
	"log"
	"time"

	"github.com/carrentals/offer-backend/config"
	"github.com/carrentals/offer-backend/database"
	"github.com/carrentals/offer-backend/handlers"
	"github.com/carrentals/offer-backend/jobs"
	"github.com/carrentals/offer-backend/services"
	"github.com/carrentals/offer-backend/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	defaults := shared.NewDefaultUnifiedConfiguration()
	defaults.ConfigureLogging(cfg.LogLevel)

	// Connect to database
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate("database/schema.sql"); err != nil {
		log.Printf("Migration warning: %v", err)
	}

	// Shared HTTP client for supplier calls
	clientFactory := shared.NewHTTPClientFactory(defaults.Supplier.HTTPRequestTimeout)
	supplierClient := clientFactory.Client(defaults.Supplier.HTTPRequestTimeout)
	defer clientFactory.CleanupAllClients()

	// Supplier adapters
	bestRentals, err := services.NewBestRentalsService(supplierClient, cfg.BestRentalsURL, defaults.Supplier.RequestRateLimit)
	if err != nil {
		log.Fatalf("Failed to initialize Best Rentals service: %v", err)
	}
	southRentals, err := services.NewSouthRentalsService(supplierClient, cfg.SouthRentalsURL, defaults.Supplier.RequestRateLimit)
	if err != nil {
		log.Fatalf("Failed to initialize South Rentals service: %v", err)
	}
	northernRentals, err := services.NewNorthernRentalsService(supplierClient, cfg.NorthernRentalsURL, defaults.Supplier.RequestRateLimit)
	if err != nil {
		log.Fatalf("Failed to initialize Northern Rentals service: %v", err)
	}

	// Aggregation and tiered retrieval
	metrics := shared.NewRetrievalMetrics()
	aggregator := services.NewCarOfferAggregator(bestRentals, southRentals, northernRentals, metrics)
	repository := services.NewCarOfferRepository(database.DB)
	cache := services.NewCacheService(defaults.Cache.MaxSize)
	retrievalService := services.NewCarOfferRetrievalService(
		aggregator, repository, cache,
		cfg.GetStalenessWindow(), cfg.GetCacheTTL(), metrics,
	)

	// Handlers
	offerHandler := handlers.NewOfferHandler(retrievalService)
	metricsHandler := handlers.NewMetricsHandler(metrics, cache)

	// Background refresh keeps the store within the staleness window
	refreshJob := jobs.NewOfferRefreshJob(retrievalService)
	go func() {
		refreshJob.Run()

		ticker := time.NewTicker(cfg.GetStalenessWindow())
		defer ticker.Stop()
		for range ticker.C {
			refreshJob.Run()
		}
	}()

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := database.HealthCheck(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":    "degraded",
				"timestamp": time.Now().Unix(),
			})
		}
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Routes
	api := app.Group("/api/v1")
	api.Get("/offers", offerHandler.GetCarOffers)
	api.Get("/metrics", metricsHandler.GetMetrics)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
