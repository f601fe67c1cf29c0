package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// It is composed of smaller structs that represent different concerns of the
// system: the HTTP server, the Birdeye price source, and the background
// refresh loop.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	BIRDEYE_BASE_URL=https://public-api.birdeye.so/defi/history_price
//	BIRDEYE_API_KEY=secret
//	REFRESH_INTERVAL_SECONDS=60
//	WINDOW_DAYS=90
//	FETCH_TIMEOUT_SECONDS=10
//	MAX_PARALLEL_REFRESH=8
type Config struct {
	Server  ServerConfig  // HTTP server configuration
	Birdeye BirdeyeConfig // Price source connection settings
	Refresh RefreshConfig // Background refresh loop settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// BirdeyeConfig defines how to reach the Birdeye price-history API.
//
// Fields:
//   - BaseURL: full URL of the history_price endpoint.
//   - APIKey: credential sent as the X-API-KEY header. Never logged.
type BirdeyeConfig struct {
	BaseURL string
	APIKey  string
}

// RefreshConfig tunes the rolling volatility cache.
//
// Fields:
//   - Interval: period of the background refresh loop.
//   - WindowDays: trailing window length used for every computation.
//   - FetchTimeout: bound on a single fetch+compute attempt.
//   - MaxParallel: concurrent asset refreshes per tick.
type RefreshConfig struct {
	Interval     time.Duration
	WindowDays   int
	FetchTimeout time.Duration
	MaxParallel  int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from a .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the
//     app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("BIRDEYE_BASE_URL", "https://public-api.birdeye.so/defi/history_price")

	viper.SetDefault("REFRESH_INTERVAL_SECONDS", 60)
	viper.SetDefault("WINDOW_DAYS", 90)
	viper.SetDefault("FETCH_TIMEOUT_SECONDS", 10)
	viper.SetDefault("MAX_PARALLEL_REFRESH", 8)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Birdeye: BirdeyeConfig{
			BaseURL: viper.GetString("BIRDEYE_BASE_URL"),
			APIKey:  viper.GetString("BIRDEYE_API_KEY"),
		},
		Refresh: RefreshConfig{
			Interval:     time.Duration(viper.GetInt("REFRESH_INTERVAL_SECONDS")) * time.Second,
			WindowDays:   viper.GetInt("WINDOW_DAYS"),
			FetchTimeout: time.Duration(viper.GetInt("FETCH_TIMEOUT_SECONDS")) * time.Second,
			MaxParallel:  viper.GetInt("MAX_PARALLEL_REFRESH"),
		},
	}

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Birdeye.BaseURL == "" {
		missing = append(missing, "BIRDEYE_BASE_URL")
	}
	if AppConfig.Birdeye.APIKey == "" {
		missing = append(missing, "BIRDEYE_API_KEY")
	}
	if AppConfig.Refresh.Interval <= 0 {
		missing = append(missing, "REFRESH_INTERVAL_SECONDS")
	}
	if AppConfig.Refresh.WindowDays <= 0 {
		missing = append(missing, "WINDOW_DAYS")
	}
	if AppConfig.Refresh.FetchTimeout <= 0 {
		missing = append(missing, "FETCH_TIMEOUT_SECONDS")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
