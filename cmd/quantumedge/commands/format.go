package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/wonny/quantumedge/internal/settings"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// Every command prints headers and status lines the same way
// ═══════════════════════════════════════════════════════════

// RunMetadata describes one headless analysis run
type RunMetadata struct {
	Title      string
	ScoringURL string
	Capital    string
	Weights    settings.Weights
	Timestamp  string
}

// PrintRunHeader prints a formatted run header
func PrintRunHeader(w io.Writer, meta RunMetadata) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", meta.Title)
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
	fmt.Fprintf(w, "  Scoring   : %s\n", meta.ScoringURL)
	fmt.Fprintf(w, "  Modal     : Rp %s\n", meta.Capital)
	fmt.Fprintf(w, "  Bobot     : %s\n", weightsLine(meta.Weights))
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
	fmt.Fprintf(w, "[Analysis] Triggered at %s\n", meta.Timestamp)
}

func weightsLine(w settings.Weights) string {
	line := ""
	for i, c := range settings.Criteria() {
		v, _ := w.Get(c)
		if i > 0 {
			line += "  "
		}
		line += fmt.Sprintf("%s=%d", c, v)
	}
	return fmt.Sprintf("%s  (total %d)", line, w.Sum())
}

// PrintRunCompletion prints the run completion message
func PrintRunCompletion(w io.Writer, duration time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "✅ Analysis completed in %.2fs\n", duration.Seconds())
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "⚠️  %s\n", message)
	fmt.Fprintln(w)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "❌ %s\n", message)
}
