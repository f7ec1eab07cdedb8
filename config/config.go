// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen" json:"screen,omitempty"`
	Simulation  SimulationConfig  `yaml:"simulation" json:"simulation,omitempty"`
	Initial     InitialConfig     `yaml:"initial" json:"initial,omitempty"`
	Seasons     SeasonsConfig     `yaml:"seasons" json:"seasons,omitempty"`
	Controls    ControlsConfig    `yaml:"controls" json:"controls,omitempty"`
	Disturbance DisturbanceConfig `yaml:"disturbance" json:"disturbance,omitempty"`
	Scoring     ScoringConfig     `yaml:"scoring" json:"scoring,omitempty"`
	Telemetry   TelemetryConfig   `yaml:"telemetry" json:"telemetry,omitempty"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" json:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width" json:"width,omitempty"`
	Height    int `yaml:"height" json:"height,omitempty"`
	TargetFPS int `yaml:"target_fps" json:"target_fps,omitempty"`
}

// SimulationConfig holds tick pipeline parameters.
type SimulationConfig struct {
	SeasonDuration    int     `yaml:"season_duration" json:"season_duration,omitempty"`       // Ticks per season
	InterpolationRate float64 `yaml:"interpolation_rate" json:"interpolation_rate,omitempty"` // Fraction of the gap to the season target closed per tick
	FrameIntervalMs   float64 `yaml:"frame_interval_ms" json:"frame_interval_ms,omitempty"`   // Wall time between ticks at speed 1x
	GrassCapacity     float64 `yaml:"grass_capacity" json:"grass_capacity,omitempty"`         // Vegetation ceiling when the grass limit is on
	LiveHistory       int     `yaml:"live_history" json:"live_history,omitempty"`             // Samples kept for the live chart
	MaxSpeed          float64 `yaml:"max_speed" json:"max_speed,omitempty"`
	MinSpeed          float64 `yaml:"min_speed" json:"min_speed,omitempty"`
}

// InitialConfig holds the populations restored on reset.
type InitialConfig struct {
	Vegetation   float64 `yaml:"vegetation" json:"vegetation,omitempty"`
	Herbivore    float64 `yaml:"herbivore" json:"herbivore,omitempty"`
	Predator     float64 `yaml:"predator" json:"predator,omitempty"`
	Mesopredator float64 `yaml:"mesopredator" json:"mesopredator,omitempty"`
}

// SeasonConfig defines the ambient targets of one season.
type SeasonConfig struct {
	Rainfall    float64 `yaml:"rainfall" json:"rainfall,omitempty"`
	Temperature float64 `yaml:"temperature" json:"temperature,omitempty"`
	Color       string  `yaml:"color" json:"color,omitempty"`             // Background hint for renderers, "#rrggbb"
}

// SeasonsConfig holds per-season targets in cycle order.
type SeasonsConfig struct {
	Spring SeasonConfig `yaml:"spring" json:"spring,omitempty"`
	Summer SeasonConfig `yaml:"summer" json:"summer,omitempty"`
	Autumn SeasonConfig `yaml:"autumn" json:"autumn,omitempty"`
	Winter SeasonConfig `yaml:"winter" json:"winter,omitempty"`
}

// SliderConfig describes a player control: its neutral default and UI range.
type SliderConfig struct {
	Default float64 `yaml:"default" json:"default,omitempty"`
	Min     float64 `yaml:"min" json:"min,omitempty"`
	Max     float64 `yaml:"max" json:"max,omitempty"`
}

// ControlsConfig holds the four environmental sliders and the initial toggles.
type ControlsConfig struct {
	Rainfall        SliderConfig `yaml:"rainfall" json:"rainfall,omitempty"`
	Temperature     SliderConfig `yaml:"temperature" json:"temperature,omitempty"`
	InvasiveSpecies SliderConfig `yaml:"invasive_species" json:"invasive_species,omitempty"`
	HumanImpact     SliderConfig `yaml:"human_impact" json:"human_impact,omitempty"`
	GrassLimit      bool         `yaml:"grass_limit" json:"grass_limit,omitempty"`
	Disasters       bool         `yaml:"disasters" json:"disasters,omitempty"`
	ShowSeasons     bool         `yaml:"show_seasons" json:"show_seasons,omitempty"`
}

// DisturbanceConfig holds disaster and narrative scheduling.
type DisturbanceConfig struct {
	DisasterInterval  int     `yaml:"disaster_interval" json:"disaster_interval,omitempty"`   // Ticks between disaster rolls
	DisasterChance    float64 `yaml:"disaster_chance" json:"disaster_chance,omitempty"`       // Probability a roll triggers a disaster
	NarrativeInterval int     `yaml:"narrative_interval" json:"narrative_interval,omitempty"` // Ticks between narrative checks
	SeverityMin       float64 `yaml:"severity_min" json:"severity_min,omitempty"`             // Disease outbreak severity range
	SeverityMax       float64 `yaml:"severity_max" json:"severity_max,omitempty"`
}

// ScoringConfig holds score thresholds.
type ScoringConfig struct {
	BadgePoints int `yaml:"badge_points" json:"badge_points,omitempty"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window" json:"stats_window,omitempty"`                   // Ticks per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size" json:"bookmark_history_size,omitempty"`
	PerfCollectorWindow int `yaml:"perf_collector_window" json:"perf_collector_window,omitempty"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameInterval time.Duration   // Simulation.FrameIntervalMs as a duration
	SeasonTargets [4]SeasonConfig // Seasons in cycle order
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports settings the tick pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.SeasonDuration <= 0 {
		errs = append(errs, errors.New("simulation.season_duration must be positive"))
	}
	if c.Simulation.InterpolationRate < 0 || c.Simulation.InterpolationRate > 1 {
		errs = append(errs, errors.New("simulation.interpolation_rate must be within [0, 1]"))
	}
	if c.Simulation.FrameIntervalMs <= 0 {
		errs = append(errs, errors.New("simulation.frame_interval_ms must be positive"))
	}
	if c.Simulation.LiveHistory <= 0 {
		errs = append(errs, errors.New("simulation.live_history must be positive"))
	}
	if c.Disturbance.DisasterInterval <= 0 {
		errs = append(errs, errors.New("disturbance.disaster_interval must be positive"))
	}
	if c.Disturbance.NarrativeInterval <= 0 {
		errs = append(errs, errors.New("disturbance.narrative_interval must be positive"))
	}
	if c.Disturbance.SeverityMax < c.Disturbance.SeverityMin {
		errs = append(errs, errors.New("disturbance.severity_max is below severity_min"))
	}
	if c.Telemetry.StatsWindow <= 0 {
		errs = append(errs, errors.New("telemetry.stats_window must be positive"))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FrameInterval = time.Duration(c.Simulation.FrameIntervalMs * float64(time.Millisecond))
	c.Derived.SeasonTargets = [4]SeasonConfig{
		c.Seasons.Spring,
		c.Seasons.Summer,
		c.Seasons.Autumn,
		c.Seasons.Winter,
	}

	if c.Simulation.MinSpeed <= 0 {
		c.Simulation.MinSpeed = 0.1
	}
	if c.Simulation.MaxSpeed < c.Simulation.MinSpeed {
		c.Simulation.MaxSpeed = c.Simulation.MinSpeed
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
