package contracts

import "strings"

// analysisSeparator splits the collaborator's free-text annotation into sections
const analysisSeparator = "|"

// HistoryPoint is one closing price in a candidate's recent price series
type HistoryPoint struct {
	Date  string  `json:"date"` // collaborator formats it as dd/mm
	Price float64 `json:"price"`
}

// Candidate is one scored stock returned by the scoring collaborator
// ⭐ SSOT: scoring service → dashboard candidate contract
type Candidate struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Price         float64        `json:"price"`
	PER           float64        `json:"c1_per"`    // cost criterion
	PBV           float64        `json:"c2_pbv"`    // cost criterion
	ROE           float64        `json:"c3_roe"`    // percent
	RSI           float64        `json:"c4_rsi"`    // 14-day
	Volume        float64        `json:"c5_volume"` // shares, 5-day average
	Analysis      string         `json:"analysis"`
	Score         float64        `json:"topsis_score"`
	AllocMoney    float64        `json:"alloc_money"`
	AllocLots     int            `json:"alloc_lots"`
	IsRecommended bool           `json:"is_recommended"`
	History       []HistoryPoint `json:"history"`
}

// Insights returns every non-empty section of the analysis annotation, trimmed
func (c *Candidate) Insights() []string {
	parts := strings.Split(c.Analysis, analysisSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Summary returns the first section of the analysis annotation.
// Only this section is shown on portfolio cards.
func (c *Candidate) Summary() string {
	first, _, _ := strings.Cut(c.Analysis, analysisSeparator)
	return strings.TrimSpace(first)
}

// Initial returns the first character of the ticker, used as the detail avatar
func (c *Candidate) Initial() string {
	for _, r := range c.ID {
		return string(r)
	}
	return ""
}

// PriceRange returns the lowest and highest closing prices in the history
func (c *Candidate) PriceRange() (low, high float64, ok bool) {
	if len(c.History) == 0 {
		return 0, 0, false
	}
	low, high = c.History[0].Price, c.History[0].Price
	for _, p := range c.History[1:] {
		if p.Price < low {
			low = p.Price
		}
		if p.Price > high {
			high = p.Price
		}
	}
	return low, high, true
}
