package strategyconfig

import (
	"fmt"
	"regexp"

	"github.com/wonny/quantumedge/internal/settings"
)

// ValidationError is a strategy file constraint violation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var presetIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks all required constraints
func Validate(f *File) error {
	if f.Meta.StrategyID == "" {
		return &ValidationError{"meta.strategy_id", "required"}
	}
	if len(f.Presets) == 0 {
		return &ValidationError{"presets", "at least one preset is required"}
	}

	seen := make(map[string]bool, len(f.Presets))
	for i, p := range f.Presets {
		field := fmt.Sprintf("presets[%d]", i)

		if !presetIDPattern.MatchString(p.ID) {
			return &ValidationError{field + ".id", fmt.Sprintf("must match %s, got %q", presetIDPattern, p.ID)}
		}
		if seen[p.ID] {
			return &ValidationError{field + ".id", fmt.Sprintf("duplicate id %q", p.ID)}
		}
		seen[p.ID] = true

		if p.Name == "" {
			return &ValidationError{field + ".name", "required"}
		}
		if p.Capital != nil && *p.Capital < 0 {
			return &ValidationError{field + ".capital", "must be >= 0"}
		}

		w := p.Weights.Settings()
		for _, c := range settings.Criteria() {
			v, _ := w.Get(c)
			if err := settings.ValidateWeight(v); err != nil {
				return &ValidationError{fmt.Sprintf("%s.weights.%s", field, c), err.Error()}
			}
		}
	}

	return nil
}
