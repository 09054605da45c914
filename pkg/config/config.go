package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultScoringURL is the hosted TOPSIS scoring service the dashboard was built against.
const DefaultScoringURL = "https://zmzari-topsis-stock-system.hf.space/analyze-custom"

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Scoring collaborator
	Scoring ScoringConfig

	// Stream
	Stream StreamConfig

	// Report
	ReportTitle string

	// Strategy presets (YAML), empty = built-in presets only
	StrategyFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// ScoringConfig holds the remote scoring service settings
type ScoringConfig struct {
	URL       string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
}

// StreamConfig holds WebSocket snapshot stream settings
type StreamConfig struct {
	Throttle time.Duration // minimum gap between pushed snapshots, 0 = push every change
}

// Load reads configuration from environment variables
// ⭐ SSOT: only this function calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Scoring: ScoringConfig{
			URL:       getEnv("SCORING_URL", DefaultScoringURL),
			Timeout:   getEnvAsDuration("SCORING_TIMEOUT", "60s"),
			RateLimit: getEnvAsFloat("SCORING_RATE_LIMIT", 0),
		},

		Stream: StreamConfig{
			Throttle: getEnvAsDuration("WS_THROTTLE", "0s"),
		},

		ReportTitle:  getEnv("REPORT_TITLE", "Laporan Rekomendasi Portofolio"),
		StrategyFile: getEnv("STRATEGY_FILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is present.
// Handy for tests and for embedding the dashboard as a library.
func Default() *Config {
	return &Config{
		Port: "8090",
		Env:  "development",
		Scoring: ScoringConfig{
			URL:     DefaultScoringURL,
			Timeout: 60 * time.Second,
		},
		ReportTitle: "Laporan Rekomendasi Portofolio",
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Scoring.URL == "" {
		return fmt.Errorf("SCORING_URL is required")
	}
	u, err := url.Parse(c.Scoring.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SCORING_URL must be an absolute URL, got %q", c.Scoring.URL)
	}

	if c.Scoring.Timeout <= 0 {
		return fmt.Errorf("SCORING_TIMEOUT must be positive")
	}

	if c.Scoring.RateLimit < 0 {
		return fmt.Errorf("SCORING_RATE_LIMIT must not be negative")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
