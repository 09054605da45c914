package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/format"
	"github.com/wonny/quantumedge/internal/report"
	"github.com/wonny/quantumedge/internal/settings"
	"github.com/wonny/quantumedge/internal/strategyconfig"
	view "github.com/wonny/quantumedge/internal/terminal"
	"github.com/wonny/quantumedge/pkg/logger"
)

// interactiveCmd represents the interactive command
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Drive a dashboard session from prompts",
	Long: `Open a prompt-driven session over a single dashboard store:
edit the capital and weights, run the analysis, switch views, open details
and export the report.

Example:
  go run ./cmd/quantumedge interactive`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// Menu actions
const (
	actionCapital = "Ubah modal"
	actionWeight  = "Ubah bobot kriteria"
	actionReset   = "Reset bobot"
	actionPreset  = "Pilih preset strategi"
	actionRun     = "Jalankan analisis"
	actionToggle  = "Ganti tampilan (Portfolio/Market)"
	actionDetail  = "Lihat detail saham"
	actionReport  = "Cetak laporan"
	actionQuit    = "Keluar"
)

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)
	store := newStore(cfg, log)
	catalog, err := loadCatalog(cfg, log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, view.Snapshot(store.Snapshot()))

	for {
		action, err := promptAction(store)
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}

		switch action {
		case actionQuit:
			return nil
		case actionCapital:
			err = promptCapital(store)
		case actionWeight:
			err = promptWeight(store)
		case actionReset:
			store.ResetWeights()
		case actionPreset:
			err = promptPreset(store, catalog)
		case actionRun:
			fmt.Fprintln(out, "Menganalisis pasar...")
			if _, runErr := store.RunAnalysis(context.Background()); runErr != nil {
				log.WithError(runErr).Debug("Interactive analysis failed")
			}
		case actionToggle:
			_, err = store.ToggleView()
		case actionDetail:
			err = promptDetail(store)
		case actionReport:
			err = promptReport(store, cfg.ReportTitle, log)
		}

		if errors.Is(err, terminal.InterruptErr) {
			continue
		}
		if err != nil {
			PrintError(out, err.Error())
			continue
		}

		fmt.Fprintln(out, view.Snapshot(store.Snapshot()))
		store.CloseDetail()
		store.DismissNotice()
	}
}

func promptAction(store *dashboard.Store) (string, error) {
	options := []string{actionCapital, actionWeight, actionReset, actionPreset, actionRun}
	if store.State() == dashboard.StatePortfolio || store.State() == dashboard.StateMarket {
		options = append(options, actionToggle, actionDetail, actionReport)
	}
	options = append(options, actionQuit)

	var selected string
	prompt := &survey.Select{
		Message: "Pilih aksi:",
		Options: options,
		Default: actionRun,
	}
	err := survey.AskOne(prompt, &selected)
	return selected, err
}

func promptCapital(store *dashboard.Store) error {
	var raw string
	prompt := &survey.Input{
		Message: "Modal investasi (Rp):",
		Help:    "Hanya angka yang dibaca, contoh: 10.000.000",
		Default: format.Capital(store.Config().Capital),
	}
	if err := survey.AskOne(prompt, &raw); err != nil {
		return err
	}
	store.SetCapitalText(raw)
	return nil
}

func promptWeight(store *dashboard.Store) error {
	criteria := settings.Criteria()
	options := make([]string, len(criteria))
	for i, c := range criteria {
		v, _ := store.Config().Weights.Get(c)
		options[i] = fmt.Sprintf("%s (%d%%)", c.Label(), v)
	}

	var idx int
	if err := survey.AskOne(&survey.Select{Message: "Kriteria:", Options: options}, &idx); err != nil {
		return err
	}
	criterion := criteria[idx]

	var raw string
	prompt := &survey.Input{
		Message: fmt.Sprintf("Bobot %s (0-100, kelipatan 5):", criterion.Label()),
	}
	err := survey.AskOne(prompt, &raw, survey.WithValidator(func(val interface{}) error {
		n, err := strconv.Atoi(strings.TrimSpace(val.(string)))
		if err != nil {
			return fmt.Errorf("bobot harus berupa angka")
		}
		return settings.ValidateWeight(n)
	}))
	if err != nil {
		return err
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	return store.SetWeight(criterion, value)
}

func promptPreset(store *dashboard.Store, catalog *strategyconfig.Catalog) error {
	presets := catalog.Presets()
	options := make([]string, len(presets))
	for i, p := range presets {
		options[i] = fmt.Sprintf("%s  %s", p.ID, p.Name)
	}

	var idx int
	prompt := &survey.Select{
		Message: "Preset:",
		Options: options,
		Description: func(value string, index int) string {
			return presets[index].Description
		},
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return err
	}
	p := presets[idx]
	return store.ApplyWeights(p.Weights.Settings(), p.Capital)
}

func promptDetail(store *dashboard.Store) error {
	result := store.Result()
	if result.IsEmpty() {
		return dashboard.ErrNoResults
	}

	candidates := result.Candidates
	if store.ViewMode() == dashboard.ViewPortfolio {
		candidates = candidates[:0:0]
		for _, c := range result.Recommended() {
			candidates = append(candidates, *c)
		}
	}
	if len(candidates) == 0 {
		return dashboard.ErrNoResults
	}

	options := make([]string, len(candidates))
	for i, c := range candidates {
		options[i] = fmt.Sprintf("%s  %s", c.ID, c.Name)
	}

	var idx int
	if err := survey.AskOne(&survey.Select{Message: "Saham:", Options: options}, &idx); err != nil {
		return err
	}
	_, err := store.Select(candidates[idx].ID)
	return err
}

func promptReport(store *dashboard.Store, title string, log *logger.Logger) error {
	rep, err := store.Report(title)
	if err != nil {
		return err
	}
	if err := report.WriteText(os.Stdout, rep); err != nil {
		return err
	}

	var path string
	prompt := &survey.Input{
		Message: "Simpan PDF ke (kosongkan untuk lewati):",
	}
	if err := survey.AskOne(prompt, &path); err != nil || strings.TrimSpace(path) == "" {
		return err
	}

	data, err := report.NewService(log).PDF(rep)
	if err != nil {
		return err
	}
	if err := os.WriteFile(strings.TrimSpace(path), data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	PrintSuccess(os.Stdout, "Laporan tersimpan di "+path)
	return nil
}
