// Package strategyconfig loads named weight presets from YAML.
// A preset is a complete set of five criterion weights, optionally with a capital.
package strategyconfig

import "github.com/wonny/quantumedge/internal/settings"

// DefaultPresetID names the built-in preset that matches the reset button
const DefaultPresetID = "default"

// File is a strategy file
type File struct {
	Meta    Meta     `yaml:"meta" json:"meta"`
	Presets []Preset `yaml:"presets" json:"presets"`
}

// Meta describes a strategy file
type Meta struct {
	StrategyID  string `yaml:"strategy_id" json:"strategy_id"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Preset is one selectable strategy
type Preset struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Capital     *int64        `yaml:"capital,omitempty" json:"capital,omitempty"`
	Weights     PresetWeights `yaml:"weights" json:"weights"`
}

// PresetWeights mirrors settings.Weights with YAML keys
type PresetWeights struct {
	PER    int `yaml:"per" json:"per"`
	PBV    int `yaml:"pbv" json:"pbv"`
	ROE    int `yaml:"roe" json:"roe"`
	RSI    int `yaml:"rsi" json:"rsi"`
	Volume int `yaml:"volume" json:"volume"`
}

// Settings converts to the store's weight type
func (w PresetWeights) Settings() settings.Weights {
	return settings.Weights{PER: w.PER, PBV: w.PBV, ROE: w.ROE, RSI: w.RSI, Volume: w.Volume}
}

// Builtin returns the presets available without a strategy file
func Builtin() []Preset {
	d := settings.DefaultWeights()
	return []Preset{{
		ID:          DefaultPresetID,
		Name:        "Strategi Seimbang",
		Description: "Bobot bawaan: valuasi diutamakan, profit, momentum dan likuiditas seimbang.",
		Weights:     PresetWeights{PER: d.PER, PBV: d.PBV, ROE: d.ROE, RSI: d.RSI, Volume: d.Volume},
	}}
}

// Catalog is the set of presets offered to the user: the built-ins followed by a file's presets
type Catalog struct {
	presets []Preset
	hash    string
}

// NewCatalog merges the built-in presets with those of f. A file preset with a
// built-in id replaces the built-in. f may be nil.
func NewCatalog(f *File) (*Catalog, error) {
	c := &Catalog{presets: Builtin()}
	if f == nil {
		return c, nil
	}

	for _, p := range f.Presets {
		replaced := false
		for i := range c.presets {
			if c.presets[i].ID == p.ID {
				c.presets[i] = p
				replaced = true
			}
		}
		if !replaced {
			c.presets = append(c.presets, p)
		}
	}

	hash, err := Hash(f)
	if err != nil {
		return nil, err
	}
	c.hash = hash
	return c, nil
}

// Presets returns every preset in catalog order
func (c *Catalog) Presets() []Preset {
	return append([]Preset(nil), c.presets...)
}

// Lookup finds a preset by id
func (c *Catalog) Lookup(id string) (Preset, error) {
	for _, p := range c.presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, &ValidationError{Field: "preset", Message: "unknown preset " + id}
}

// Hash identifies the loaded strategy file; empty for the built-ins alone
func (c *Catalog) Hash() string {
	return c.hash
}
