package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Provider names accepted in WEATHER_PROVIDER.
const (
	ProviderOpenWeather = "openweather"
	ProviderOpenMeteo   = "openmeteo"
)

type AppConfig struct {
	// Provider selects the upstream weather source.
	Provider string

	OpenWeatherAPIKey    string
	GoogleGeocoderAPIKey string

	// HTTPTimeout bounds each outbound provider call attempt.
	HTTPTimeout time.Duration

	// Response cache retention.
	CacheTTL           time.Duration
	CachePruneInterval time.Duration

	// HistoryLimit bounds the client search history.
	HistoryLimit int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Provider = getenvDefault("WEATHER_PROVIDER", ProviderOpenWeather)
	if cfg.Provider != ProviderOpenWeather && cfg.Provider != ProviderOpenMeteo {
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q: must be %q or %q",
			cfg.Provider, ProviderOpenWeather, ProviderOpenMeteo)
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	// A missing OpenWeather key is not fatal at startup: the handler surfaces
	// it as a configuration error on each request instead.
	if cfg.Provider == ProviderOpenWeather && cfg.OpenWeatherAPIKey == "" {
		logrus.Warn("OPENWEATHER_API_KEY is not set; weather requests will fail")
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	ttlStr := getenvDefault("CACHE_TTL", "5m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	pruneStr := getenvDefault("CACHE_PRUNE_INTERVAL", "1m")
	prune, err := time.ParseDuration(pruneStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_PRUNE_INTERVAL: %w", err)
	}
	cfg.CachePruneInterval = prune

	cfg.HistoryLimit = getenvInt("SEARCH_HISTORY_LIMIT", 10)
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
