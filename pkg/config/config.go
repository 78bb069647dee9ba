// Package config loads process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Provider Provider
	Search   Search
	Suggest  Suggest
	Location Location
	Log      Log
	Metrics  Metrics
}

type Provider struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Search struct {
	Timeout     time.Duration
	PageDelay   time.Duration
	CacheTTL    time.Duration
	RadiusMiles float64
}

type Suggest struct {
	Debounce time.Duration
}

type Location struct {
	SensorTimeout time.Duration
	MaxFixAge     time.Duration
	FallbackLat   float64
	FallbackLng   float64
}

type Log struct {
	Level  string
	Format string
}

type Metrics struct {
	Addr string
}

// Load reads the .env file when present, then the environment. Only
// the provider API key is mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider: Provider{
			BaseURL: envString("PROVIDER_BASE_URL", ""),
			APIKey:  envString("PROVIDER_API_KEY", ""),
			Timeout: envDuration("PROVIDER_TIMEOUT", 10*time.Second),
		},
		Search: Search{
			Timeout:     envDuration("SEARCH_TIMEOUT", 30*time.Second),
			PageDelay:   envDuration("SEARCH_PAGE_DELAY", 200*time.Millisecond),
			CacheTTL:    envDuration("SEARCH_CACHE_TTL", 5*time.Minute),
			RadiusMiles: envFloat("SEARCH_RADIUS_MILES", 5),
		},
		Suggest: Suggest{
			Debounce: envDuration("SUGGEST_DEBOUNCE", 300*time.Millisecond),
		},
		Location: Location{
			SensorTimeout: envDuration("SENSOR_TIMEOUT", 10*time.Second),
			MaxFixAge:     envDuration("SENSOR_MAX_FIX_AGE", 5*time.Minute),
			FallbackLat:   envFloat("FALLBACK_LAT", 0),
			FallbackLng:   envFloat("FALLBACK_LNG", 0),
		},
		Log: Log{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "text"),
		},
		Metrics: Metrics{
			Addr: envString("METRICS_ADDR", ""),
		},
	}

	if cfg.Provider.APIKey == "" {
		return nil, fmt.Errorf("PROVIDER_API_KEY is required")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
