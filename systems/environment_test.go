package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

func TestEnvironmentReset(t *testing.T) {
	m := NewEnvironmentModel(config.Default())
	s := components.EcosystemState{Season: components.Winter, AmbientRainfall: 3, TargetRainfall: 3}
	m.Reset(&s)

	if s.Season != components.Spring {
		t.Errorf("season = %s, want Spring", s.Season)
	}
	if s.AmbientRainfall != 70 || s.TargetRainfall != 70 {
		t.Errorf("rainfall ambient/target = %v/%v, want 70/70", s.AmbientRainfall, s.TargetRainfall)
	}
	if s.AmbientTemperature != 20 || s.TargetTemperature != 20 {
		t.Errorf("temperature ambient/target = %v/%v, want 20/20", s.AmbientTemperature, s.TargetTemperature)
	}
}

func TestEnvironmentSeasonCycle(t *testing.T) {
	m := NewEnvironmentModel(config.Default())
	var s components.EcosystemState
	m.Reset(&s)

	want := []components.Season{components.Summer, components.Autumn, components.Winter, components.Spring, components.Summer}
	for i, season := range want {
		for tick := 1; tick <= 300; tick++ {
			s.TickCount = i*300 + tick
			m.Update(&s)
			if tick < 300 && s.Season == season {
				t.Fatalf("season changed early at tick %d", s.TickCount)
			}
		}
		if s.Season != season {
			t.Fatalf("after tick %d season = %s, want %s", s.TickCount, s.Season, season)
		}
	}
}

func TestEnvironmentSmoothing(t *testing.T) {
	m := NewEnvironmentModel(config.Default())
	var s components.EcosystemState
	m.Reset(&s)

	// Move to Summer: target rainfall 30, temperature 35
	s.TickCount = 300
	m.Update(&s)

	wantRain := 70 + (30-70)*0.01
	wantTemp := 20 + (35-20)*0.01
	if math.Abs(s.AmbientRainfall-wantRain) > 1e-9 {
		t.Errorf("rainfall = %v, want %v", s.AmbientRainfall, wantRain)
	}
	if math.Abs(s.AmbientTemperature-wantTemp) > 1e-9 {
		t.Errorf("temperature = %v, want %v", s.AmbientTemperature, wantTemp)
	}

	// Converges without overshooting
	for i := 0; i < 2000; i++ {
		s.TickCount = 301 + i%250
		m.Update(&s)
		if s.AmbientRainfall < 30-1e-9 {
			t.Fatalf("rainfall overshot target: %v", s.AmbientRainfall)
		}
	}
	if math.Abs(s.AmbientRainfall-30) > 0.01 {
		t.Errorf("rainfall = %v, expected convergence to 30", s.AmbientRainfall)
	}
}

func TestEnvironmentDriversAreOffsets(t *testing.T) {
	m := NewEnvironmentModel(config.Default())
	s := components.EcosystemState{AmbientRainfall: 40, AmbientTemperature: 12}

	tests := []struct {
		name         string
		in           components.ControlInputs
		wantRainfall float64
		wantTemp     float64
	}{
		{"neutral sliders", components.ControlInputs{Rainfall: 50, Temperature: 20}, 40, 12},
		{"wetter and warmer", components.ControlInputs{Rainfall: 80, Temperature: 30}, 70, 22},
		{"drier and colder", components.ControlInputs{Rainfall: 0, Temperature: 0}, -10, -8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, temp := m.Drivers(&s, tt.in)
			if r != tt.wantRainfall || temp != tt.wantTemp {
				t.Errorf("Drivers = (%v, %v), want (%v, %v)", r, temp, tt.wantRainfall, tt.wantTemp)
			}
		})
	}
}
