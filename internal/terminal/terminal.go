// Package terminal renders dashboard projections for the command line.
// Every function returns a string; callers decide where it is printed.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wonny/quantumedge/internal/advisory"
	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/settings"
)

const panelWidth = 78

// Palette tokens used by advice styles and highlights
var palette = map[string]lipgloss.Color{
	"slate":   lipgloss.Color("#64748B"),
	"blue":    lipgloss.Color("#3B82F6"),
	"emerald": lipgloss.Color("#10B981"),
	"purple":  lipgloss.Color("#8B5CF6"),
	"red":     lipgloss.Color("#EF4444"),
	"amber":   lipgloss.Color("#F59E0B"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#1E293B")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(palette["slate"])

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(palette["emerald"]).
			Padding(0, 1).
			Width(panelWidth)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(palette["blue"]).
			Padding(0, 1).
			Width(panelWidth)

	noticeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(palette["red"]).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(palette["red"]).
			Padding(0, 1).
			Width(panelWidth)

	goodStyle = lipgloss.NewStyle().Foreground(palette["emerald"]).Bold(true)
	badStyle  = lipgloss.NewStyle().Foreground(palette["red"]).Bold(true)
	boldStyle = lipgloss.NewStyle().Bold(true)
)

// Advice renders the capital advisory box
func Advice(capitalText string, a advisory.Advice) string {
	color, ok := palette[a.Style]
	if !ok {
		color = palette["slate"]
	}
	style := panelStyle.BorderForeground(color)

	var b strings.Builder
	fmt.Fprintf(&b, "Modal: Rp %s\n", capitalText)
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(color).Render(a.Title))
	b.WriteString("\n")
	b.WriteString(a.Description)
	return style.Render(b.String())
}

// Weights renders the five criterion controls with their current values
func Weights(w settings.Weights) string {
	var b strings.Builder
	for i, c := range settings.Criteria() {
		v, _ := w.Get(c)
		bar := strings.Repeat("█", v/5) + strings.Repeat("░", (settings.WeightMax-v)/5)
		fmt.Fprintf(&b, "%-22s %s %3d%%", c.Label(), bar, v)
		if i < len(settings.Criteria())-1 {
			b.WriteString("\n")
		}
	}
	return panelStyle.Render(b.String())
}

// Portfolio renders the recommended candidates as cards
func Portfolio(cards []dashboard.Card) string {
	if len(cards) == 0 {
		return mutedStyle.Render("Tidak ada saham yang direkomendasikan untuk konfigurasi ini.")
	}

	blocks := make([]string, 0, len(cards)+1)
	blocks = append(blocks, mutedStyle.Render(dashboard.PortfolioHint))
	for _, c := range cards {
		body := fmt.Sprintf("%s %s  %s\n%s\nSkor %s · %d Lot · %s",
			boldStyle.Render(fmt.Sprintf("#%d", c.Rank)),
			boldStyle.Render(c.ID),
			c.Name,
			mutedStyle.Render(c.Summary),
			c.Score, c.Lots, goodStyle.Render(c.Money),
		)
		blocks = append(blocks, cardStyle.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Market renders every candidate as a table with highlighted indicators
func Market(rows []dashboard.Row) string {
	if len(rows) == 0 {
		return mutedStyle.Render("Tidak ada data pasar.")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-4s %-10s %-8s %14s %8s %8s %8s", "#", "Saham", "Skor", "Harga", "PER", "ROE", "RSI")
	b.WriteString(boldStyle.Render(header))
	for _, r := range rows {
		per := pad(r.PER, 8)
		if r.CheapPER {
			per = goodStyle.Render(per)
		}
		roe := pad(r.ROE, 8)
		if r.StrongROE {
			roe = goodStyle.Render(roe)
		}
		rsi := pad(r.RSI, 8)
		switch r.RSIZone {
		case dashboard.RSIOversold:
			rsi = goodStyle.Render(rsi)
		case dashboard.RSIOverbought:
			rsi = badStyle.Render(rsi)
		}
		fmt.Fprintf(&b, "\n%-4s %-10s %-8s %14s %s %s %s",
			fmt.Sprintf("#%d", r.Rank), r.ID, r.Score, r.Price, per, roe, rsi)
	}
	return panelStyle.Render(b.String())
}

// Detail renders the overlay for one candidate
func Detail(d dashboard.Detail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n%s\n\n", titleStyle.Render(d.Initial), boldStyle.Render(d.ID), d.Name)

	b.WriteString(boldStyle.Render("Fundamental"))
	fmt.Fprintf(&b, "\n  PER %s   PBV %s   ROE %s\n\n", d.PER, d.PBV, d.ROE)

	b.WriteString(boldStyle.Render("Teknikal"))
	rsi := d.RSI
	switch d.RSIZone {
	case dashboard.RSIOversold:
		rsi = goodStyle.Render(rsi)
	case dashboard.RSIOverbought:
		rsi = badStyle.Render(rsi)
	}
	fmt.Fprintf(&b, "\n  RSI(14) %s   Volume %s   Skor TOPSIS %s\n", rsi, d.Volume, d.Score)

	if len(d.History) > 0 {
		b.WriteString("\n")
		b.WriteString(boldStyle.Render("Grafik Harga"))
		b.WriteString("\n  ")
		b.WriteString(Sparkline(d.History))
		fmt.Fprintf(&b, "\n  %s – %s\n", d.LowPrice, d.HighPrice)
	}

	if len(d.Insights) > 0 {
		b.WriteString("\n")
		for _, in := range d.Insights {
			fmt.Fprintf(&b, "• %s\n", in)
		}
	}

	b.WriteString("\n")
	b.WriteString(goodStyle.Render(d.Advice))
	return panelStyle.Render(b.String())
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the price history as a row of block characters
func Sparkline(points []dashboard.ChartPoint) string {
	if len(points) == 0 {
		return ""
	}
	low, high := points[0].Price, points[0].Price
	for _, p := range points[1:] {
		low = min(low, p.Price)
		high = max(high, p.Price)
	}

	out := make([]rune, len(points))
	for i, p := range points {
		idx := 0
		if high > low {
			idx = int((p.Price - low) / (high - low) * float64(len(sparkTicks)-1))
		}
		out[i] = sparkTicks[idx]
	}
	return string(out)
}

// Notice renders a failure notice
func Notice(n dashboard.Notice) string {
	return noticeStyle.Render("⚠️  " + n.Message)
}

// Snapshot renders the whole dashboard for the current state
func Snapshot(snap dashboard.Snapshot) string {
	blocks := []string{
		titleStyle.Render("QuantumEdge"),
		Advice(snap.Capital, snap.Advice),
		Weights(snap.Config.Weights),
	}
	if snap.Notice != nil {
		blocks = append(blocks, Notice(*snap.Notice))
	}

	switch snap.State {
	case dashboard.StateEmpty:
		blocks = append(blocks, mutedStyle.Render("Belum ada hasil analisis. Atur modal dan bobot, lalu jalankan analisis."))
	case dashboard.StateLoading:
		blocks = append(blocks, mutedStyle.Render("Menganalisis pasar..."))
	case dashboard.StatePortfolio:
		blocks = append(blocks, mutedStyle.Render("Data per "+snap.Timestamp), Portfolio(snap.Cards))
	case dashboard.StateMarket:
		blocks = append(blocks, mutedStyle.Render("Data per "+snap.Timestamp), Market(snap.Rows))
	}

	if snap.Detail != nil {
		blocks = append(blocks, Detail(*snap.Detail))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
