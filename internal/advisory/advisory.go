// Package advisory maps a capital amount to a qualitative investment tier.
package advisory

// Tier identifies one of the four capital bands
type Tier string

const (
	TierLearning Tier = "learning"
	TierStarter  Tier = "starter"
	TierGrowth   Tier = "growth"
	TierHighEnd  Tier = "high_end"
)

// Band lower bounds, inclusive. Each band ends where the next one starts.
const (
	StarterFloor int64 = 1_000_000
	GrowthFloor  int64 = 10_000_000
	HighEndFloor int64 = 50_000_000
)

// Advice is the guidance shown next to the capital input
type Advice struct {
	Tier        Tier   `json:"tier"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Style       string `json:"style"` // colour token: slate, blue, emerald, purple
}

var (
	learning = Advice{
		Tier:        TierLearning,
		Title:       "Modal Pembelajaran",
		Description: "Fokus pada saham 'Second Liner' atau Fractional untuk belajar volatilitas pasar tanpa risiko besar.",
		Style:       "slate",
	}
	starter = Advice{
		Tier:        TierStarter,
		Title:       "Portfolio Pemula",
		Description: "Cukup untuk diversifikasi ke 2-3 sektor berbeda. Prioritaskan saham LQ45 harga < 5.000/lembar.",
		Style:       "blue",
	}
	growth = Advice{
		Tier:        TierGrowth,
		Title:       "Portfolio Pertumbuhan",
		Description: "Ideal untuk membangun pondasi kuat. Anda bisa mulai mengakumulasi saham 'Big Banks' (BBCA/BBRI).",
		Style:       "emerald",
	}
	highEnd = Advice{
		Tier:        TierHighEnd,
		Title:       "Portfolio High-End",
		Description: "Fokus pada Manajemen Risiko & Dividen. Alokasi modal Anda sangat kuat untuk strategi jangka panjang.",
		Style:       "purple",
	}
)

// Classify returns the advice for a capital amount.
// Bands: [0, 1jt), [1jt, 10jt), [10jt, 50jt), [50jt, ∞). Negative amounts fall in the first.
func Classify(capital int64) Advice {
	switch {
	case capital < StarterFloor:
		return learning
	case capital < GrowthFloor:
		return starter
	case capital < HighEndFloor:
		return growth
	default:
		return highEnd
	}
}

// Tiers lists every advice in ascending band order
func Tiers() []Advice {
	return []Advice{learning, starter, growth, highEnd}
}
