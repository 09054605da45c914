package config_test

import (
	"fmt"

	"github.com/wonny/quantumedge/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	// Access configuration values
	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Scoring service: %s\n", cfg.Scoring.URL)
	fmt.Printf("Scoring timeout: %s\n", cfg.Scoring.Timeout)
}

// ExampleDefault shows the configuration used without any environment
func ExampleDefault() {
	cfg := config.Default()

	fmt.Println(cfg.Port)
	fmt.Println(cfg.Scoring.Timeout)
	fmt.Println(cfg.Scoring.URL)
	// Output:
	// 8090
	// 1m0s
	// https://zmzari-topsis-stock-system.hf.space/analyze-custom
}
