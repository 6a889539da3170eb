package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricescope/backend/config"
	httpDelivery "github.com/pricescope/backend/internal/delivery/http"
	"github.com/pricescope/backend/internal/infrastructure/cache"
	"github.com/pricescope/backend/internal/infrastructure/exchange"
	"github.com/pricescope/backend/internal/infrastructure/imagehash"
	"github.com/pricescope/backend/internal/infrastructure/marketplace"
	"github.com/pricescope/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceScope Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	resultCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	marketplaceClient := marketplace.NewClient(
		cfg.Marketplace.APIKey,
		cfg.Marketplace.APIHost,
		cfg.Marketplace.ShipToCountry,
		cfg.Marketplace.Currency,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		marketplaceClient.SetDebug(true)
		log.Printf("Marketplace client debug mode enabled")
	}
	log.Printf("Marketplace API configured: %s (ship to %s, currency %s)",
		cfg.Marketplace.APIHost, cfg.Marketplace.ShipToCountry, cfg.Marketplace.Currency)

	imageScorer := imagehash.NewAdapter(imagehash.NewMD5Provider())
	rateProvider := exchange.NewStaticProvider(cfg.Exchange.Rate)
	log.Printf("Exchange rate: %.4f", cfg.Exchange.Rate)

	// Initialize usecase layer
	comparisonService := usecase.NewComparisonService(
		marketplaceClient,
		imageScorer,
		rateProvider,
		resultCache,
		usecase.ComparisonServiceConfig{
			Weights: usecase.ScoreWeights{
				Title:      cfg.Matching.TitleWeight,
				Image:      cfg.Matching.ImageWeight,
				Popularity: cfg.Matching.PopularityWeight,
			},
			MinConfidenceThreshold: cfg.Matching.MinConfidenceThreshold,
			CacheTTL:               cfg.Cache.TTL,
			SourceStore:            cfg.Matching.SourceStore,
			EnableDebugLogging:     cfg.Matching.EnableDebugLogging,
		},
	)

	log.Printf("Matching: threshold=%.2f, weights=%.2f/%.2f/%.2f",
		cfg.Matching.MinConfidenceThreshold,
		cfg.Matching.TitleWeight,
		cfg.Matching.ImageWeight,
		cfg.Matching.PopularityWeight)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
