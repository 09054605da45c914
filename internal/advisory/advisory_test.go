package advisory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		capital int64
		want    Tier
	}{
		{0, TierLearning},
		{StarterFloor - 1, TierLearning},
		{StarterFloor, TierStarter},
		{1_500_000, TierStarter},
		{GrowthFloor - 1, TierStarter},
		{GrowthFloor, TierGrowth},
		{HighEndFloor - 1, TierGrowth},
		{HighEndFloor, TierHighEnd},
		{math.MaxInt64, TierHighEnd},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.capital).Tier, "capital=%d", tt.capital)
		})
	}
}

func TestClassify_Titles(t *testing.T) {
	assert.Equal(t, "Modal Pembelajaran", Classify(500_000).Title)
	assert.Equal(t, "Portfolio Pemula", Classify(1_500_000).Title)
	assert.Equal(t, "Portfolio Pertumbuhan", Classify(10_000_000).Title)
	assert.Equal(t, "Portfolio High-End", Classify(75_000_000).Title)
}

// Bands partition [0, ∞): the tier never moves backwards and changes exactly at the floors.
func TestClassify_Partition(t *testing.T) {
	floors := map[int64]bool{StarterFloor: true, GrowthFloor: true, HighEndFloor: true}
	order := map[Tier]int{}
	for i, a := range Tiers() {
		order[a.Tier] = i
	}

	prev := Classify(0)
	for v := int64(0); v <= 60_000_000; v += 250_000 {
		cur := Classify(v)
		assert.GreaterOrEqual(t, order[cur.Tier], order[prev.Tier])
		if cur.Tier != prev.Tier {
			assert.True(t, floors[v], "tier changed at %d, which is not a band floor", v)
		}
		prev = cur
	}
}

func TestTiers(t *testing.T) {
	tiers := Tiers()
	assert.Len(t, tiers, 4)
	for _, a := range tiers {
		assert.NotEmpty(t, a.Title)
		assert.NotEmpty(t, a.Description)
		assert.NotEmpty(t, a.Style)
	}
}
