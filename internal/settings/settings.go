// Package settings holds the user-editable configuration: the capital amount and
// the five criterion weights.
package settings

import (
	"github.com/wonny/quantumedge/internal/contracts"
)

// Configuration is the user's current input
type Configuration struct {
	Capital int64   `json:"capital"`
	Weights Weights `json:"weights"`
}

// Default returns the configuration a session starts with
func Default() Configuration {
	return Configuration{
		Capital: DefaultCapital,
		Weights: DefaultWeights(),
	}
}

// Request packages the configuration into the scoring request body.
// Weights are passed through as raw percentages.
func (c Configuration) Request() contracts.AnalysisRequest {
	return contracts.AnalysisRequest{
		Capital: c.Capital,
		WPER:    c.Weights.PER,
		WPBV:    c.Weights.PBV,
		WROE:    c.Weights.ROE,
		WRSI:    c.Weights.RSI,
		WVolume: c.Weights.Volume,
	}
}
