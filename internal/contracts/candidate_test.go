package contracts

import (
	"testing"
)

func TestCandidate_Summary(t *testing.T) {
	tests := []struct {
		name     string
		analysis string
		want     string
	}{
		{"multiple sections", "Teknikal: Netral | Fundamental: Profit Tinggi", "Teknikal: Netral"},
		{"single section", "Teknikal: Oversold (Murah)", "Teknikal: Oversold (Murah)"},
		{"empty", "", ""},
		{"leading separator", "| Fundamental: Undervalued", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Candidate{Analysis: tt.analysis}
			if got := c.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCandidate_Insights(t *testing.T) {
	c := &Candidate{Analysis: "Teknikal: Netral | Fundamental: Profit Tinggi |  | Fundamental: Undervalued"}

	got := c.Insights()
	want := []string{"Teknikal: Netral", "Fundamental: Profit Tinggi", "Fundamental: Undervalued"}
	if len(got) != len(want) {
		t.Fatalf("Insights() returned %d sections, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Insights()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCandidate_Initial(t *testing.T) {
	if got := (&Candidate{ID: "BBRI.JK"}).Initial(); got != "B" {
		t.Errorf("Initial() = %q, want B", got)
	}
	if got := (&Candidate{}).Initial(); got != "" {
		t.Errorf("Initial() = %q, want empty", got)
	}
}

func TestCandidate_PriceRange(t *testing.T) {
	c := &Candidate{History: []HistoryPoint{
		{Date: "01/10", Price: 9100},
		{Date: "02/10", Price: 8950},
		{Date: "03/10", Price: 9300},
	}}

	low, high, ok := c.PriceRange()
	if !ok || low != 8950 || high != 9300 {
		t.Errorf("PriceRange() = (%v, %v, %v), want (8950, 9300, true)", low, high, ok)
	}

	if _, _, ok := (&Candidate{}).PriceRange(); ok {
		t.Error("PriceRange() on empty history should report ok=false")
	}
}
