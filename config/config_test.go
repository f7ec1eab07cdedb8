package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Simulation.SeasonDuration != 300 {
		t.Errorf("season_duration = %d, want 300", cfg.Simulation.SeasonDuration)
	}
	if cfg.Simulation.InterpolationRate != 0.01 {
		t.Errorf("interpolation_rate = %v, want 0.01", cfg.Simulation.InterpolationRate)
	}
	if cfg.Initial.Vegetation != 100 || cfg.Initial.Herbivore != 50 || cfg.Initial.Predator != 10 || cfg.Initial.Mesopredator != 30 {
		t.Errorf("unexpected initial populations: %+v", cfg.Initial)
	}
	if cfg.Controls.Rainfall.Default != 50 || cfg.Controls.Temperature.Default != 20 {
		t.Errorf("unexpected slider defaults: %+v", cfg.Controls)
	}
	if cfg.Derived.FrameInterval != 16*time.Millisecond {
		t.Errorf("frame interval = %v, want 16ms", cfg.Derived.FrameInterval)
	}
	if got := cfg.Derived.SeasonTargets[1].Temperature; got != 35 {
		t.Errorf("summer temperature = %v, want 35", got)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("simulation:\n  season_duration: 120\nscoring:\n  badge_points: 900\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Simulation.SeasonDuration != 120 {
		t.Errorf("season_duration = %d, want 120", cfg.Simulation.SeasonDuration)
	}
	if cfg.Scoring.BadgePoints != 900 {
		t.Errorf("badge_points = %d, want 900", cfg.Scoring.BadgePoints)
	}
	// Untouched sections keep their defaults
	if cfg.Disturbance.DisasterInterval != 1000 {
		t.Errorf("disaster_interval = %d, want 1000", cfg.Disturbance.DisasterInterval)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero season duration", "simulation:\n  season_duration: 0\n"},
		{"negative interpolation", "simulation:\n  interpolation_rate: -0.5\n"},
		{"zero disaster interval", "disturbance:\n  disaster_interval: 0\n"},
		{"inverted severity", "disturbance:\n  severity_min: 0.8\n  severity_max: 0.2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Disturbance.DisasterChance = 0.5

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Disturbance.DisasterChance != 0.5 {
		t.Errorf("disaster_chance = %v, want 0.5", loaded.Disturbance.DisasterChance)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic from Cfg() before Init()")
		}
	}()
	Cfg()
}
