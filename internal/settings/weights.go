package settings

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Criterion is the key of one of the five scoring inputs
type Criterion string

const (
	CriterionPER    Criterion = "per"    // valuation, cost criterion
	CriterionPBV    Criterion = "pbv"    // asset price, cost criterion
	CriterionROE    Criterion = "roe"    // profitability
	CriterionRSI    Criterion = "rsi"    // momentum
	CriterionVolume Criterion = "volume" // liquidity
)

// Weight control bounds
const (
	WeightMin  = 0
	WeightMax  = 100
	WeightStep = 5
)

var (
	ErrUnknownCriterion = errors.New("unknown criterion")
	ErrInvalidWeight    = errors.New("invalid weight")
)

// Criteria lists the criteria in display order
func Criteria() []Criterion {
	return []Criterion{CriterionPER, CriterionPBV, CriterionROE, CriterionRSI, CriterionVolume}
}

// Label returns the control label shown next to the slider
func (c Criterion) Label() string {
	switch c {
	case CriterionPER:
		return "Valuasi Murah (PER)"
	case CriterionPBV:
		return "Aset Murah (PBV)"
	case CriterionROE:
		return "Profit Tinggi (ROE)"
	case CriterionRSI:
		return "Tren Naik (RSI)"
	case CriterionVolume:
		return "Pasar Ramai (Vol)"
	}
	return string(c)
}

// Group returns the analysis family a criterion belongs to
func (c Criterion) Group() string {
	switch c {
	case CriterionPER, CriterionPBV:
		return "Fundamental"
	case CriterionROE:
		return "Bisnis"
	default:
		return "Teknikal"
	}
}

// ParseCriterion validates a criterion key
func ParseCriterion(s string) (Criterion, error) {
	for _, c := range Criteria() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCriterion, s)
}

// Weights holds one integer percentage per criterion.
// The five values are not required to sum to 100 and are never normalized here.
type Weights struct {
	PER    int `json:"per" validate:"weight"`
	PBV    int `json:"pbv" validate:"weight"`
	ROE    int `json:"roe" validate:"weight"`
	RSI    int `json:"rsi" validate:"weight"`
	Volume int `json:"volume" validate:"weight"`
}

// DefaultWeights returns the preset strategy
func DefaultWeights() Weights {
	return Weights{PER: 30, PBV: 10, ROE: 20, RSI: 20, Volume: 20}
}

// Get returns the weight of one criterion
func (w Weights) Get(c Criterion) (int, error) {
	switch c {
	case CriterionPER:
		return w.PER, nil
	case CriterionPBV:
		return w.PBV, nil
	case CriterionROE:
		return w.ROE, nil
	case CriterionRSI:
		return w.RSI, nil
	case CriterionVolume:
		return w.Volume, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCriterion, c)
}

// With returns a copy of w with one criterion changed.
// The value must lie in [0,100] on the 5-point grid.
func (w Weights) With(c Criterion, value int) (Weights, error) {
	if _, err := w.Get(c); err != nil {
		return w, err
	}
	if err := ValidateWeight(value); err != nil {
		return w, err
	}

	switch c {
	case CriterionPER:
		w.PER = value
	case CriterionPBV:
		w.PBV = value
	case CriterionROE:
		w.ROE = value
	case CriterionRSI:
		w.RSI = value
	case CriterionVolume:
		w.Volume = value
	}
	return w, nil
}

// Sum returns the total of all five weights
func (w Weights) Sum() int {
	return w.PER + w.PBV + w.ROE + w.RSI + w.Volume
}

// Map returns the weights keyed by criterion
func (w Weights) Map() map[Criterion]int {
	return map[Criterion]int{
		CriterionPER:    w.PER,
		CriterionPBV:    w.PBV,
		CriterionROE:    w.ROE,
		CriterionRSI:    w.RSI,
		CriterionVolume: w.Volume,
	}
}

// Validate checks every weight against the control bounds
func (w Weights) Validate() error {
	if err := validate().Struct(w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, err)
	}
	return nil
}

// ValidateWeight checks a single weight against the control bounds
func ValidateWeight(value int) error {
	if err := validate().Var(value, "weight"); err != nil {
		return fmt.Errorf("%w: %d must be between %d and %d in steps of %d",
			ErrInvalidWeight, value, WeightMin, WeightMax, WeightStep)
	}
	return nil
}

var (
	validateOnce sync.Once
	validateInst *validator.Validate
)

// validate returns the shared validator with the "weight" rule registered
func validate() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("weight", func(fl validator.FieldLevel) bool {
			n := fl.Field().Int()
			return n >= WeightMin && n <= WeightMax && n%WeightStep == 0
		})
		validateInst = v
	})
	return validateInst
}
