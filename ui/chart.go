package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Chart draws the live population series as one line per species.
type Chart struct {
	renderer *Renderer
	bounds   rl.Rectangle
}

// NewChart creates a chart occupying bounds.
func NewChart(bounds rl.Rectangle) *Chart {
	return &Chart{renderer: NewRenderer(), bounds: bounds}
}

// ChartScale returns the y-axis ceiling for the samples: the largest value
// rounded up to a 1-2-5 step, at least 10.
func ChartScale(samples []telemetry.Sample) float64 {
	peak := 0.0
	for _, s := range samples {
		for _, v := range s.Populations() {
			peak = math.Max(peak, v)
		}
	}
	if peak <= 10 {
		return 10
	}
	mag := math.Pow(10, math.Floor(math.Log10(peak)))
	for _, step := range []float64{1, 2, 5, 10} {
		if peak <= step*mag {
			return step * mag
		}
	}
	return 10 * mag
}

// ChartPoints maps one species' series into bounds. Samples are spread
// evenly across the width, newest at the right edge.
func ChartPoints(samples []telemetry.Sample, sp components.Species, bounds rl.Rectangle, yMax float64) []rl.Vector2 {
	if len(samples) == 0 || yMax <= 0 {
		return nil
	}
	pts := make([]rl.Vector2, len(samples))
	step := float32(0)
	if len(samples) > 1 {
		step = bounds.Width / float32(len(samples)-1)
	}
	for i, s := range samples {
		frac := float32(math.Min(s.Populations()[sp]/yMax, 1))
		pts[i] = rl.Vector2{
			X: bounds.X + float32(i)*step,
			Y: bounds.Y + bounds.Height*(1-frac),
		}
	}
	return pts
}

// Draw renders axes, gridlines, the four series and a legend.
func (c *Chart) Draw(samples []telemetry.Sample) {
	b := c.bounds
	theme := c.renderer.Theme

	rl.DrawRectangleRec(b, rl.White)
	rl.DrawRectangleLinesEx(b, 1, theme.PanelBorder)

	yMax := ChartScale(samples)
	for i := 0; i <= 4; i++ {
		y := b.Y + b.Height*float32(i)/4
		rl.DrawLineV(rl.Vector2{X: b.X, Y: y}, rl.Vector2{X: b.X + b.Width, Y: y}, rl.Color{R: 225, G: 225, B: 225, A: 255})
		label := fmt.Sprintf("%.0f", yMax*float64(4-i)/4)
		rl.DrawText(label, int32(b.X)-rl.MeasureText(label, 10)-4, int32(y)-5, 10, rl.Gray)
	}

	for sp := components.Species(0); sp < components.NumSpecies; sp++ {
		pts := ChartPoints(samples, sp, b, yMax)
		for i := 1; i < len(pts); i++ {
			rl.DrawLineEx(pts[i-1], pts[i], 2, SpeciesColors[sp])
		}
	}

	if len(samples) > 0 {
		first, last := samples[0].Time, samples[len(samples)-1].Time
		rl.DrawText(fmt.Sprintf("%d", first), int32(b.X), int32(b.Y+b.Height)+4, 10, rl.Gray)
		end := fmt.Sprintf("%d", last)
		rl.DrawText(end, int32(b.X+b.Width)-rl.MeasureText(end, 10), int32(b.Y+b.Height)+4, 10, rl.Gray)
	}

	x := int32(b.X) + 8
	for sp := components.Species(0); sp < components.NumSpecies; sp++ {
		rl.DrawRectangle(x, int32(b.Y)+8, 10, 10, SpeciesColors[sp])
		rl.DrawText(sp.String(), x+14, int32(b.Y)+7, 12, rl.DarkGray)
		x += 14 + rl.MeasureText(sp.String(), 12) + 12
	}
}
