// Package systems contains the per-tick update rules of the ecosystem model.
package systems

import (
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// SeasonTarget is the ambient rainfall and temperature a season pulls toward.
type SeasonTarget struct {
	Rainfall    float64
	Temperature float64
}

// EnvironmentModel drives the seasonal state machine and ambient smoothing.
type EnvironmentModel struct {
	targets           [components.NumSeasons]SeasonTarget
	seasonDuration    int
	interpolationRate float64

	// Neutral slider positions; player input is an offset from these
	rainfallDefault    float64
	temperatureDefault float64
}

// NewEnvironmentModel creates an environment model from config.
func NewEnvironmentModel(cfg *config.Config) *EnvironmentModel {
	m := &EnvironmentModel{
		seasonDuration:     cfg.Simulation.SeasonDuration,
		interpolationRate:  cfg.Simulation.InterpolationRate,
		rainfallDefault:    cfg.Controls.Rainfall.Default,
		temperatureDefault: cfg.Controls.Temperature.Default,
	}
	for i, s := range cfg.Derived.SeasonTargets {
		m.targets[i] = SeasonTarget{Rainfall: s.Rainfall, Temperature: s.Temperature}
	}
	return m
}

// Target returns the configured target for a season.
func (m *EnvironmentModel) Target(s components.Season) SeasonTarget {
	return m.targets[s%components.NumSeasons]
}

// Reset puts the state in Spring with ambient values already at Spring's targets.
func (m *EnvironmentModel) Reset(state *components.EcosystemState) {
	t := m.targets[components.Spring]
	state.Season = components.Spring
	state.TargetRainfall = t.Rainfall
	state.TargetTemperature = t.Temperature
	state.AmbientRainfall = t.Rainfall
	state.AmbientTemperature = t.Temperature
}

// Update advances the season when the tick lands on a season boundary, then
// moves the ambient values a fixed fraction toward the current targets.
func (m *EnvironmentModel) Update(state *components.EcosystemState) {
	if state.TickCount > 0 && state.TickCount%m.seasonDuration == 0 {
		state.Season = state.Season.Next()
		t := m.targets[state.Season]
		state.TargetRainfall = t.Rainfall
		state.TargetTemperature = t.Temperature
	}

	state.AmbientRainfall += (state.TargetRainfall - state.AmbientRainfall) * m.interpolationRate
	state.AmbientTemperature += (state.TargetTemperature - state.AmbientTemperature) * m.interpolationRate
}

// Drivers combines the ambient values with the player's slider offsets.
func (m *EnvironmentModel) Drivers(state *components.EcosystemState, in components.ControlInputs) (rainfall, temperature float64) {
	rainfall = state.AmbientRainfall + (in.Rainfall - m.rainfallDefault)
	temperature = state.AmbientTemperature + (in.Temperature - m.temperatureDefault)
	return rainfall, temperature
}
