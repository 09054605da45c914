package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/quantumedge/internal/advisory"
	"github.com/wonny/quantumedge/internal/format"
	"github.com/wonny/quantumedge/internal/settings"
	"github.com/wonny/quantumedge/internal/terminal"
)

// adviseCmd represents the advise command
var adviseCmd = &cobra.Command{
	Use:   "advise <capital>",
	Short: "Classify a capital amount into an advisory tier",
	Long: `Print the advisory for a capital amount, typed the way the capital field accepts it.
Everything except ASCII digits is ignored, so "Rp 1.500.000" means 1500000.

Example:
  go run ./cmd/quantumedge advise 750000
  go run ./cmd/quantumedge advise "Rp 1.500.000"
  go run ./cmd/quantumedge advise --all`,
	Args: func(cmd *cobra.Command, args []string) error {
		if adviseAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runAdvise,
}

var adviseAll bool

func init() {
	rootCmd.AddCommand(adviseCmd)

	adviseCmd.Flags().BoolVar(&adviseAll, "all", false, "list every tier with its band")
}

func runAdvise(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if adviseAll {
		floors := []int64{0, advisory.StarterFloor, advisory.GrowthFloor, advisory.HighEndFloor}
		for i, a := range advisory.Tiers() {
			band := fmt.Sprintf("≥ Rp %s", format.Capital(floors[i]))
			if i+1 < len(floors) {
				band = fmt.Sprintf("Rp %s – Rp %s", format.Capital(floors[i]), format.Capital(floors[i+1]-1))
			}
			fmt.Fprintf(out, "%-10s %-24s %s\n", a.Tier, a.Title, band)
		}
		return nil
	}

	capital := settings.ParseCapital(strings.Join(args, " "))
	fmt.Fprintln(out, terminal.Advice(format.Capital(capital), advisory.Classify(capital)))
	return nil
}
