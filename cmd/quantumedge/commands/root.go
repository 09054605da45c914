package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/scoring"
	"github.com/wonny/quantumedge/internal/strategyconfig"
	"github.com/wonny/quantumedge/pkg/config"
	"github.com/wonny/quantumedge/pkg/httputil"
	"github.com/wonny/quantumedge/pkg/logger"
)

var (
	// Global flags
	env          string
	scoringURL   string
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quantumedge",
	Short: "QuantumEdge - decision support dashboard for IDX stock allocation",
	Long: `QuantumEdge Unified CLI

Configure a capital amount and five criterion weights, send them to the
TOPSIS scoring service and browse the ranked, allocated result.

Usage:
  go run ./cmd/quantumedge [command]

Examples:
  go run ./cmd/quantumedge serve
  go run ./cmd/quantumedge analyze --capital 25.000.000 --weight roe=40
  go run ./cmd/quantumedge advise "Rp 1.500.000"
  go run ./cmd/quantumedge interactive`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), overrides ENV")
	rootCmd.PersistentFlags().StringVar(&scoringURL, "scoring-url", "", "scoring service endpoint, overrides SCORING_URL")
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "YAML file with weight presets, overrides STRATEGY_FILE")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the environment and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if scoringURL != "" {
		cfg.Scoring.URL = scoringURL
	}
	if strategyFile != "" {
		cfg.StrategyFile = strategyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// newStore wires the scoring client into a fresh dashboard store
func newStore(cfg *config.Config, log *logger.Logger) *dashboard.Store {
	httpClient := httputil.New(cfg, log)
	scoringClient := scoring.NewClient(httpClient, cfg.Scoring.URL, log)
	return dashboard.NewStore(scoringClient, log)
}

// loadCatalog reads the preset file named in cfg, falling back to the built-in presets
func loadCatalog(cfg *config.Config, log *logger.Logger) (*strategyconfig.Catalog, error) {
	catalog, err := strategyconfig.LoadCatalog(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy presets: %w", err)
	}
	if cfg.StrategyFile != "" {
		log.WithFields(map[string]interface{}{
			"path":    cfg.StrategyFile,
			"presets": len(catalog.Presets()),
			"hash":    catalog.Hash(),
		}).Info("Strategy presets loaded")
	}
	return catalog, nil
}
