package logger_test

import (
	"errors"

	"github.com/wonny/quantumedge/pkg/config"
	"github.com/wonny/quantumedge/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	// Create logger (SSOT)
	log := logger.New(cfg)

	// Basic logging
	log.Debug("This won't appear (level is info)")
	log.Info("Dashboard started")
	log.Warn("Scoring service is slow")

	// Formatted logging
	log.Infof("Listening on port %s", "8090")
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Add single field
	log.WithField("request_id", "7f9c").Info("Analysis started")

	// Add multiple fields
	log.WithFields(map[string]interface{}{
		"candidates":  12,
		"recommended": 4,
		"capital":     10000000,
	}).Info("Analysis result installed")
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	err := errors.New("scoring service returned HTTP 503")
	log.WithError(err).WithField("request_id", "7f9c").Error("Analysis failed")
}
