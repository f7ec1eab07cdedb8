// Package main searches the player controls for settings that keep the
// ecosystem diverse and out of collapse.
package main

import (
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters, in
// ControlInputs field order.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the parameter set from the slider ranges.
func NewParamVector(ctl config.ControlsConfig) *ParamVector {
	spec := func(name string, s config.SliderConfig) ParamSpec {
		return ParamSpec{Name: name, Path: "controls." + name, Min: s.Min, Max: s.Max, Default: s.Default}
	}
	return &ParamVector{
		Specs: []ParamSpec{
			spec("rainfall", ctl.Rainfall),
			spec("temperature", ctl.Temperature),
			spec("invasive_species", ctl.InvasiveSpecies),
			spec("human_impact", ctl.HumanImpact),
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Controls converts raw values into control inputs, clamped to bounds.
func (pv *ParamVector) Controls(values []float64) components.ControlInputs {
	c := pv.Clamp(values)
	return components.ControlInputs{
		Rainfall:        c[0],
		Temperature:     c[1],
		InvasiveSpecies: c[2],
		HumanImpact:     c[3],
	}
}

// ApplyToConfig makes the values the slider defaults, so a reset starts
// from them.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Controls(values)
	cfg.Controls.Rainfall.Default = c.Rainfall
	cfg.Controls.Temperature.Default = c.Temperature
	cfg.Controls.InvasiveSpecies.Default = c.InvasiveSpecies
	cfg.Controls.HumanImpact.Default = c.HumanImpact
}
