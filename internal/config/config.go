package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all service settings, populated from environment variables.
type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	OpenWeatherGeoURL  string
	IPGeoBaseURL       string

	// HTTPTimeout bounds every outbound upstream call.
	HTTPTimeout time.Duration

	// DeviceWait bounds how long a device position attempt may take before
	// the resolver falls back to the IP lookup.
	DeviceWait time.Duration

	// DefaultCity is served when automatic location resolution fails.
	DefaultCity string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		OpenWeatherGeoURL:  getenvDefault("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0"),
		IPGeoBaseURL:       getenvDefault("IPGEO_BASE_URL", "https://ipapi.co"),
		DefaultCity:        getenvDefault("DEFAULT_CITY", "San Francisco"),
		Port:               getenvDefault("PORT", "8080"),
	}

	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	httpTimeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = httpTimeout

	deviceWait, err := time.ParseDuration(getenvDefault("DEVICE_WAIT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_WAIT: %w", err)
	}
	cfg.DeviceWait = deviceWait

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
