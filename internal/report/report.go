// Package report renders the print projection of an analysis: a plain text
// appendix for terminals and logs, and an A4 PDF.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/settings"
	"github.com/wonny/quantumedge/pkg/logger"
)

// AppendixTitle heads the data table on every rendering
const AppendixTitle = "Lampiran Data Analisis"

// Columns of the appendix table, in print order
var Columns = []string{"No", "Saham", "Harga (IDR)", "Skor", "PER", "ROE", "RSI", "Rek. Lot"}

const (
	doubleRule = "═══════════════════════════════════════════════════════════════════════════"
	singleRule = "───────────────────────────────────────────────────────────────────────────"
)

// Subtitle is the "generated by" line under the title
func Subtitle(rep dashboard.Report) string {
	return fmt.Sprintf("Generated by %s • %s", dashboard.DefaultHeading, rep.Timestamp)
}

// StrategyLine lists the weights in control order, e.g. "PER 30% · PBV 10% · ..."
func StrategyLine(rep dashboard.Report) string {
	parts := make([]string, 0, len(settings.Criteria()))
	for _, c := range settings.Criteria() {
		parts = append(parts, fmt.Sprintf("%s %d%%", strings.ToUpper(string(c)), rep.Weights[string(c)]))
	}
	return strings.Join(parts, " · ")
}

func cells(row dashboard.ReportRow) []string {
	return []string{
		fmt.Sprintf("%d", row.No),
		row.ID,
		row.Price,
		row.Score,
		row.PER,
		row.ROE,
		row.RSI,
		fmt.Sprintf("%d", row.Lots),
	}
}

// WriteText writes the report as a fixed-width table
func WriteText(w io.Writer, rep dashboard.Report) error {
	var b strings.Builder

	fmt.Fprintln(&b, doubleRule)
	fmt.Fprintf(&b, "  %s\n", rep.Title)
	fmt.Fprintf(&b, "  %s\n", Subtitle(rep))
	fmt.Fprintln(&b, singleRule)
	fmt.Fprintf(&b, "  Modal     : %s\n", rep.Capital)
	fmt.Fprintf(&b, "  Strategi  : %s\n", StrategyLine(rep))
	fmt.Fprintf(&b, "  Alokasi   : %s\n", rep.Allocated)
	fmt.Fprintln(&b, doubleRule)
	fmt.Fprintf(&b, "  %s\n", AppendixTitle)
	fmt.Fprintln(&b, singleRule)

	rows := make([][]string, 0, len(rep.Rows)+1)
	rows = append(rows, Columns)
	for _, r := range rep.Rows {
		rows = append(rows, cells(r))
	}

	widths := columnWidths(rows)
	for i, row := range rows {
		b.WriteString(" ")
		for j, cell := range row {
			// Identifier columns read left to right; figures align on the right
			if j == 1 {
				fmt.Fprintf(&b, " %-*s", widths[j], cell)
			} else {
				fmt.Fprintf(&b, " %*s", widths[j], cell)
			}
		}
		b.WriteString("\n")
		if i == 0 {
			fmt.Fprintln(&b, singleRule)
		}
	}
	fmt.Fprintln(&b, doubleRule)

	_, err := io.WriteString(w, b.String())
	return err
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(Columns))
	for _, row := range rows {
		for j, cell := range row {
			if n := len([]rune(cell)); n > widths[j] {
				widths[j] = n
			}
		}
	}
	return widths
}

// Service renders PDF reports
type Service struct {
	logger *logger.Logger
}

// NewService creates a new report service
func NewService(log *logger.Logger) *Service {
	return &Service{logger: log}
}

// pdfColumnWidths in mm, summing to the printable width of A4 portrait with 15mm margins
var pdfColumnWidths = []float64{12, 30, 30, 22, 20, 20, 20, 26}

// PDF renders the report as an A4 portrait document
func (s *Service) PDF(rep dashboard.Report) ([]byte, error) {
	s.logger.WithFields(map[string]interface{}{
		"rows":  len(rep.Rows),
		"title": rep.Title,
	}).Debug("Rendering PDF report")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(rep.Title, true)
	pdf.SetCreator(dashboard.DefaultHeading, true)
	pdf.AddPage()

	// Core fonts are cp1252; translate so "•" and "·" survive
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, tr(rep.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, tr(Subtitle(rep)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr("Modal: "+rep.Capital), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Strategi: "+StrategyLine(rep)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Total Alokasi: "+rep.Allocated), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(AppendixTitle), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(226, 232, 240)
	for i, col := range Columns {
		pdf.CellFormat(pdfColumnWidths[i], 7, tr(col), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rep.Rows {
		for i, cell := range cells(row) {
			align := "R"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(pdfColumnWidths[i], 6, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.WithError(err).Error("Failed to render PDF report")
		return nil, fmt.Errorf("failed to render PDF report: %w", err)
	}

	s.logger.WithField("pdf_size", buf.Len()).Debug("PDF report rendered")
	return buf.Bytes(), nil
}
