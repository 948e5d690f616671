package evo

import (
	"errors"
	"fmt"
	"sort"
)

// Parent selection strategy names understood by the framework.
const (
	StrategyPowerLaw   = "power_law"
	StrategyWeighted   = "weighted"
	StrategyBeamSearch = "beam_search"
)

// ErrUnknownStrategy is returned for preset or strategy names that are not recognised.
var ErrUnknownStrategy = errors.New("unknown parent selection strategy")

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

var presets = map[string]func() ParentSelection{
	// Uniform sampling from correct programs.
	"uniform": func() ParentSelection {
		return ParentSelection{Strategy: StrategyPowerLaw, ExploitationAlpha: f64(0), ExploitationRatio: f64(1)}
	},
	// Always expand the best program.
	"hill_climbing": func() ParentSelection {
		return ParentSelection{Strategy: StrategyPowerLaw, ExploitationAlpha: f64(100), ExploitationRatio: f64(1)}
	},
	"weighted": func() ParentSelection {
		return ParentSelection{Strategy: StrategyWeighted, ParentSelectionLambda: f64(10)}
	},
	"power_law": func() ParentSelection {
		return ParentSelection{Strategy: StrategyPowerLaw, ExploitationAlpha: f64(1), ExploitationRatio: f64(0.2)}
	},
	"power_law_high": func() ParentSelection {
		return ParentSelection{Strategy: StrategyPowerLaw, ExploitationAlpha: f64(2), ExploitationRatio: f64(0.2)}
	},
	"beam_search": func() ParentSelection {
		return ParentSelection{Strategy: StrategyBeamSearch, NumBeams: intp(10)}
	},
}

// Preset returns a fresh copy of the named parent selection preset.
func Preset(name string) (ParentSelection, error) {
	mk, ok := presets[name]
	if !ok {
		return ParentSelection{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return mk(), nil
}

// Presets lists the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
