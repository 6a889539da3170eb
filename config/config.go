package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Marketplace MarketplaceConfig
	Exchange    ExchangeConfig
	Cache       CacheConfig
	Matching    MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketplaceConfig holds target-marketplace API configuration
type MarketplaceConfig struct {
	APIKey        string `mapstructure:"api_key"`
	APIHost       string `mapstructure:"api_host"`
	ShipToCountry string `mapstructure:"ship_to_country"`
	Currency      string `mapstructure:"currency"`
}

// ExchangeConfig holds the conversion rate from the marketplace currency to
// the source currency
type ExchangeConfig struct {
	Rate float64 `mapstructure:"rate"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds the scoring weights and confidence gate
type MatchingConfig struct {
	MinConfidenceThreshold float64 `mapstructure:"min_confidence_threshold"`
	TitleWeight            float64 `mapstructure:"title_weight"`
	ImageWeight            float64 `mapstructure:"image_weight"`
	PopularityWeight       float64 `mapstructure:"popularity_weight"`
	SourceStore            string  `mapstructure:"source_store"`
	EnableDebugLogging     bool    `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricescope/")

	// Environment variable settings
	v.SetEnvPrefix("PRICESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Marketplace defaults
	v.SetDefault("marketplace.api_host", "aliexpress-product-data-api.p.rapidapi.com")
	v.SetDefault("marketplace.ship_to_country", "AE")
	v.SetDefault("marketplace.currency", "USD")

	// Exchange defaults (USD -> AED peg)
	v.SetDefault("exchange.rate", 3.67)

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Matching defaults
	v.SetDefault("matching.min_confidence_threshold", 0.70)
	v.SetDefault("matching.title_weight", 0.45)
	v.SetDefault("matching.image_weight", 0.40)
	v.SetDefault("matching.popularity_weight", 0.15)
	v.SetDefault("matching.source_store", "Amazon")
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Marketplace.APIKey == "" {
		return fmt.Errorf("marketplace API key is required (set PRICESCOPE_MARKETPLACE_API_KEY)")
	}

	if config.Matching.MinConfidenceThreshold < 0 || config.Matching.MinConfidenceThreshold > 1 {
		return fmt.Errorf("matching threshold must be in [0, 1], got: %v", config.Matching.MinConfidenceThreshold)
	}

	if config.Matching.TitleWeight < 0 || config.Matching.ImageWeight < 0 || config.Matching.PopularityWeight < 0 {
		return fmt.Errorf("matching weights must not be negative")
	}

	return nil
}
