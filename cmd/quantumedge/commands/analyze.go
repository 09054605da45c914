package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/format"
	"github.com/wonny/quantumedge/internal/report"
	"github.com/wonny/quantumedge/internal/settings"
	"github.com/wonny/quantumedge/internal/strategyconfig"
	"github.com/wonny/quantumedge/internal/terminal"
	"github.com/wonny/quantumedge/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis and print the result",
	Long: `Send the capital and weights to the scoring service once and print the chosen view.

Weights are raw percentages on a 5-point grid from 0 to 100; they do not need
to sum to 100. Unset weights keep the preset (PER 30, PBV 10, ROE 20, RSI 20, Volume 20).
--preset loads a named preset first; --capital and --weight then override it.

Example:
  go run ./cmd/quantumedge analyze
  go run ./cmd/quantumedge analyze --capital "Rp 25.000.000" --weight roe=40 --weight rsi=10
  go run ./cmd/quantumedge analyze --view market --detail BBCA.JK
  go run ./cmd/quantumedge analyze --strategy presets.yaml --preset value
  go run ./cmd/quantumedge analyze --report --pdf laporan.pdf`,
	RunE: runAnalyze,
}

var (
	analyzePreset  string
	analyzeCapital string
	analyzeWeights map[string]int
	analyzeView    string
	analyzeDetail  string
	analyzeReport  bool
	analyzePDF     string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringVar(&analyzePreset, "preset", "", "apply a named weight preset before the other flags")
	analyzeCmd.Flags().StringVar(&analyzeCapital, "capital", "", "capital as typed, non-digits are ignored (default 10.000.000)")
	analyzeCmd.Flags().StringToIntVar(&analyzeWeights, "weight", nil, "criterion weight, e.g. --weight per=30 (per|pbv|roe|rsi|volume)")
	analyzeCmd.Flags().StringVar(&analyzeView, "view", string(dashboard.ViewPortfolio), "view to print (portfolio|market)")
	analyzeCmd.Flags().StringVar(&analyzeDetail, "detail", "", "open the detail of one candidate id")
	analyzeCmd.Flags().BoolVar(&analyzeReport, "report", false, "print the full report table")
	analyzeCmd.Flags().StringVar(&analyzePDF, "pdf", "", "write the report as PDF to this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	view, err := dashboard.ParseViewMode(analyzeView)
	if err != nil {
		return err
	}

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Create store and apply the configuration
	store := newStore(cfg, log)
	catalog, err := loadCatalog(cfg, log)
	if err != nil {
		return err
	}
	if err := applyAnalyzeFlags(store, catalog); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	current := store.Config()
	PrintRunHeader(out, RunMetadata{
		Title:      "QuantumEdge Analysis",
		ScoringURL: cfg.Scoring.URL,
		Capital:    format.Capital(current.Capital),
		Weights:    current.Weights,
		Timestamp:  time.Now().Format("2006-01-02 15:04:05"),
	})
	fmt.Fprintln(out, terminal.Advice(format.Capital(current.Capital), store.Advice()))

	// 4. Run
	start := time.Now()
	if _, err := store.RunAnalysis(context.Background()); err != nil {
		notice, _ := store.Notice()
		PrintError(out, notice.Message)
		return err
	}
	PrintRunCompletion(out, time.Since(start))

	// 5. Present
	if store.State() == dashboard.StateEmpty {
		PrintWarning(out, "The scoring service returned no candidates")
		return nil
	}
	if err := store.SetViewMode(view); err != nil {
		return err
	}
	if analyzeDetail != "" {
		if _, err := store.Select(analyzeDetail); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, terminal.Snapshot(store.Snapshot()))

	// 6. Report
	if !analyzeReport && analyzePDF == "" {
		return nil
	}
	rep, err := store.Report(cfg.ReportTitle)
	if err != nil {
		return err
	}
	if analyzeReport {
		if err := report.WriteText(out, rep); err != nil {
			return err
		}
	}
	if analyzePDF != "" {
		data, err := report.NewService(log).PDF(rep)
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzePDF, data, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		PrintSuccess(out, fmt.Sprintf("Report written to %s", analyzePDF))
	}

	return nil
}

func applyAnalyzeFlags(store *dashboard.Store, catalog *strategyconfig.Catalog) error {
	if analyzePreset != "" {
		preset, err := catalog.Lookup(analyzePreset)
		if err != nil {
			return err
		}
		if err := store.ApplyWeights(preset.Weights.Settings(), preset.Capital); err != nil {
			return fmt.Errorf("--preset %s: %w", preset.ID, err)
		}
	}
	if analyzeCapital != "" {
		store.SetCapitalText(analyzeCapital)
	}
	for key, value := range analyzeWeights {
		c, err := settings.ParseCriterion(strings.ToLower(key))
		if err != nil {
			return err
		}
		if err := store.SetWeight(c, value); err != nil {
			return fmt.Errorf("--weight %s: %w", key, err)
		}
	}
	return nil
}
