package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
)

// SpeciesColors are the series colors used by the chart and the food web.
var SpeciesColors = [components.NumSpecies]rl.Color{
	components.Vegetation:   HexColor("#4CAF50"),
	components.Herbivore:    HexColor("#FF9800"),
	components.Predator:     HexColor("#F44336"),
	components.Mesopredator: HexColor("#FFEB3B"),
}

// HealthColor returns the label color for a health class.
func HealthColor(h components.Health) rl.Color {
	switch h {
	case components.Collapsed:
		return HexColor("#F44336")
	case components.Unstable:
		return HexColor("#FF9800")
	default:
		return HexColor("#4CAF50")
	}
}

// HexColor parses "#rrggbb" (leading # optional) into an opaque color.
// Malformed input yields gray.
func HexColor(s string) rl.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rl.Gray
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rl.Gray
	}
	return rl.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// LerpColor blends a toward b by t in [0, 1].
func LerpColor(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// WithAlpha scales a color's alpha by f in [0, 1].
func WithAlpha(c rl.Color, f float32) rl.Color {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c.A = uint8(float32(c.A) * f)
	return c
}
