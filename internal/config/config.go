package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all client configuration.
type Config struct {
	API     APIConfig
	Geo     GeoConfig
	Session SessionConfig
	Payment PaymentConfig
	Logger  LoggerConfig
}

// APIConfig holds backend REST API configuration.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GeoConfig holds the third-party province/district/ward lookup configuration.
type GeoConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds durable session storage configuration.
type SessionConfig struct {
	FilePath string
}

// PaymentConfig holds payment gateway round-trip configuration.
type PaymentConfig struct {
	// CartClearDelay is how long to wait after a successful gateway return
	// before clearing the cart, so we do not race the backend's own
	// order-driven cart clear.
	CartClearDelay time.Duration
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080/api"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),
		},
		Geo: GeoConfig{
			BaseURL: getEnv("GEO_BASE_URL", "https://esgoo.net/api-tinhthanh"),
			Timeout: getEnvAsDuration("GEO_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			FilePath: getEnv("SESSION_FILE", defaultSessionFile()),
		},
		Payment: PaymentConfig{
			CartClearDelay: getEnvAsDuration("CART_CLEAR_DELAY", 30*time.Second),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.Geo.BaseURL == "" {
		return fmt.Errorf("geo base URL is required")
	}

	if c.Session.FilePath == "" {
		return fmt.Errorf("session file path is required")
	}

	if c.Payment.CartClearDelay < 0 {
		return fmt.Errorf("cart clear delay cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront-session.json"
	}
	return dir + string(os.PathSeparator) + "storefront" + string(os.PathSeparator) + "session.json"
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration in seconds
// or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
