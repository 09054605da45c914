package dashboard

import (
	"time"

	"github.com/wonny/quantumedge/internal/advisory"
	"github.com/wonny/quantumedge/internal/contracts"
	"github.com/wonny/quantumedge/internal/format"
	"github.com/wonny/quantumedge/internal/settings"
)

// Highlight thresholds used by the market table and the detail overlay
const (
	CheapPER       = 15.0 // PER below is highlighted as good
	StrongROE      = 15.0 // ROE above is highlighted as good
	OversoldRSI    = 30.0
	OverboughtRSI  = 70.0
	ScorePlaces    = 4 // cards, rows and detail
	ReportPlaces   = 3 // printed appendix
	PortfolioHint  = "Sistem ini merekomendasikan pembelian berdasarkan skor tertinggi. Klik pada kartu saham untuk melihat Grafik Harga & Analisis Detail."
	DefaultHeading = "QuantumEdge SPK"
)

// RSIZone classifies a momentum reading
type RSIZone string

const (
	RSIOversold   RSIZone = "oversold"
	RSINeutral    RSIZone = "neutral"
	RSIOverbought RSIZone = "overbought"
)

// ClassifyRSI returns the zone of an RSI value. Both bounds are exclusive.
func ClassifyRSI(rsi float64) RSIZone {
	switch {
	case rsi < OversoldRSI:
		return RSIOversold
	case rsi > OverboughtRSI:
		return RSIOverbought
	default:
		return RSINeutral
	}
}

// Card is one portfolio card
type Card struct {
	Rank    int    `json:"rank"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Score   string `json:"score"`
	Lots    int    `json:"lots"`
	Money   string `json:"money"`
}

// Row is one market table row
type Row struct {
	Rank      int     `json:"rank"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Score     string  `json:"score"`
	Price     string  `json:"price"`
	PER       string  `json:"per"`
	ROE       string  `json:"roe"`
	RSI       string  `json:"rsi"`
	CheapPER  bool    `json:"cheap_per"`
	StrongROE bool    `json:"strong_roe"`
	RSIZone   RSIZone `json:"rsi_zone"`
}

// ChartPoint is one point of the detail price chart
type ChartPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
	Label string  `json:"label"`
}

// Detail is the overlay for one candidate. Shown for any candidate, recommended or not.
type Detail struct {
	ID          string       `json:"id"`
	Initial     string       `json:"initial"`
	Name        string       `json:"name"`
	Price       string       `json:"price"`
	PER         string       `json:"per"`
	PBV         string       `json:"pbv"`
	ROE         string       `json:"roe"`
	RSI         string       `json:"rsi"`
	RSIZone     RSIZone      `json:"rsi_zone"`
	Volume      string       `json:"volume"`
	Score       string       `json:"score"`
	Insights    []string     `json:"insights"`
	Advice      string       `json:"advice"`
	History     []ChartPoint `json:"history"`
	LowPrice    string       `json:"low_price,omitempty"`
	HighPrice   string       `json:"high_price,omitempty"`
	Recommended bool         `json:"recommended"`
}

// ReportRow is one line of the printed appendix
type ReportRow struct {
	No    int    `json:"no"`
	ID    string `json:"id"`
	Price string `json:"price"`
	Score string `json:"score"`
	PER   string `json:"per"`
	ROE   string `json:"roe"`
	RSI   string `json:"rsi"`
	Lots  int    `json:"lots"`
}

// Report is the print projection of the full, unfiltered result
type Report struct {
	Title     string         `json:"title"`
	Timestamp string         `json:"timestamp"`
	Capital   string         `json:"capital"`
	Weights   map[string]int `json:"weights"`
	Allocated string         `json:"allocated"`
	Rows      []ReportRow    `json:"rows"`
	Generated time.Time      `json:"generated"`
}

// Snapshot is an immutable copy of the store state
type Snapshot struct {
	Version   uint64                 `json:"version"`
	State     ViewState              `json:"state"`
	ViewMode  ViewMode               `json:"view_mode"`
	Loading   bool                   `json:"loading"`
	Config    settings.Configuration `json:"config"`
	Capital   string                 `json:"capital_text"`
	Advice    advisory.Advice        `json:"advice"`
	Notice    *Notice                `json:"notice,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
	Hint      string                 `json:"hint,omitempty"`
	Cards     []Card                 `json:"cards,omitempty"`
	Rows      []Row                  `json:"rows,omitempty"`
	Detail    *Detail                `json:"detail,omitempty"`
}

// Snapshot returns a copy of the current state with the visible projection filled in
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:  s.version,
		State:    s.stateLocked(),
		ViewMode: s.viewMode,
		Loading:  s.loading,
		Config:   s.config,
		Capital:  format.Capital(s.config.Capital),
		Advice:   advisory.Classify(s.config.Capital),
	}
	if s.notice != nil {
		n := *s.notice
		snap.Notice = &n
	}
	if s.result != nil {
		snap.Timestamp = s.result.Meta.Timestamp
	}

	switch snap.State {
	case StatePortfolio:
		snap.Cards = PortfolioCards(s.result)
		snap.Hint = PortfolioHint
	case StateMarket:
		snap.Rows = MarketRows(s.result)
	}
	if s.selected != nil {
		d := NewDetail(s.selected)
		snap.Detail = &d
	}
	return snap
}

// Portfolio returns the cards of the current result, or ErrNoResults
func (s *Store) Portfolio() ([]Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result.IsEmpty() {
		return nil, ErrNoResults
	}
	return PortfolioCards(s.result), nil
}

// Market returns the table rows of the current result, or ErrNoResults
func (s *Store) Market() ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result.IsEmpty() {
		return nil, ErrNoResults
	}
	return MarketRows(s.result), nil
}

// Detail returns the overlay of the selected candidate
func (s *Store) Detail() (Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return Detail{}, false
	}
	return NewDetail(s.selected), true
}

// Report projects the full result for printing. The configuration shown is the one
// currently held by the store, as on the printed page.
func (s *Store) Report(title string) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result.IsEmpty() {
		return Report{}, ErrNoResults
	}
	return BuildReport(title, s.result, s.config, s.now()), nil
}

// PortfolioCards projects the recommended candidates, ranked by display position
func PortfolioCards(r *contracts.AnalysisResult) []Card {
	recommended := r.Recommended()
	cards := make([]Card, 0, len(recommended))
	for i, c := range recommended {
		cards = append(cards, Card{
			Rank:    i + 1,
			ID:      c.ID,
			Name:    c.Name,
			Summary: c.Summary(),
			Score:   format.Fixed(c.Score, ScorePlaces),
			Lots:    c.AllocLots,
			Money:   format.IDR(c.AllocMoney),
		})
	}
	return cards
}

// MarketRows projects every candidate in collaborator order
func MarketRows(r *contracts.AnalysisResult) []Row {
	all := r.All()
	rows := make([]Row, 0, len(all))
	for i, c := range all {
		rows = append(rows, Row{
			Rank:      i + 1,
			ID:        c.ID,
			Name:      c.Name,
			Score:     format.Fixed(c.Score, ScorePlaces),
			Price:     format.IDR(c.Price),
			PER:       format.Number(c.PER),
			ROE:       format.Number(c.ROE),
			RSI:       format.Number(c.RSI),
			CheapPER:  c.PER < CheapPER,
			StrongROE: c.ROE > StrongROE,
			RSIZone:   ClassifyRSI(c.RSI),
		})
	}
	return rows
}

// NewDetail builds the overlay for a candidate
func NewDetail(c *contracts.Candidate) Detail {
	d := Detail{
		ID:          c.ID,
		Initial:     c.Initial(),
		Name:        c.Name,
		Price:       format.IDR(c.Price),
		PER:         format.Multiple(c.PER),
		PBV:         format.Multiple(c.PBV),
		ROE:         format.Percent(c.ROE),
		RSI:         format.Number(c.RSI),
		RSIZone:     ClassifyRSI(c.RSI),
		Volume:      format.Millions(c.Volume),
		Score:       format.Fixed(c.Score, ScorePlaces),
		Insights:    c.Insights(),
		Advice:      AllocationAdvice(c),
		History:     make([]ChartPoint, 0, len(c.History)),
		Recommended: c.IsRecommended,
	}
	for _, p := range c.History {
		d.History = append(d.History, ChartPoint{Date: p.Date, Price: p.Price, Label: format.ThousandsTick(p.Price)})
	}
	if low, high, ok := c.PriceRange(); ok {
		d.LowPrice = format.IDR(low)
		d.HighPrice = format.IDR(high)
	}
	return d
}

// AllocationAdvice is the purchase sentence in the detail overlay
func AllocationAdvice(c *contracts.Candidate) string {
	return "Disarankan membeli " + format.Capital(int64(c.AllocLots)) + " Lot senilai " + format.IDR(c.AllocMoney)
}

// BuildReport projects every candidate of r, recommended or not
func BuildReport(title string, r *contracts.AnalysisResult, cfg settings.Configuration, now time.Time) Report {
	if title == "" {
		title = DefaultHeading
	}

	weights := make(map[string]int, len(settings.Criteria()))
	for c, v := range cfg.Weights.Map() {
		weights[string(c)] = v
	}

	rep := Report{
		Title:     title,
		Timestamp: r.Meta.Timestamp,
		Capital:   format.IDR(float64(cfg.Capital)),
		Weights:   weights,
		Allocated: format.IDR(r.TotalAllocated()),
		Rows:      make([]ReportRow, 0, len(r.Candidates)),
		Generated: now,
	}
	for i, c := range r.All() {
		rep.Rows = append(rep.Rows, ReportRow{
			No:    i + 1,
			ID:    c.ID,
			Price: format.IDR(c.Price),
			Score: format.Fixed(c.Score, ReportPlaces),
			PER:   format.Number(c.PER),
			ROE:   format.Number(c.ROE),
			RSI:   format.Number(c.RSI),
			Lots:  c.AllocLots,
		})
	}
	return rep
}
