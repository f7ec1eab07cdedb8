package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
)

// linkThreshold is the population both ends of a food-web link need before
// the link is drawn.
const linkThreshold = 10.0

// Link is one drawn edge of the food web.
type Link struct {
	From, To components.Species
	Color    rl.Color
	Dashed   bool // Indirect feedback rather than consumption
}

// FoodWebLinks returns the links to draw for the given populations.
func FoodWebLinks(p components.Populations) []Link {
	var links []Link
	alive := func(a, b components.Species) bool {
		return p[a] > linkThreshold && p[b] > linkThreshold
	}
	if alive(components.Vegetation, components.Herbivore) {
		links = append(links, Link{From: components.Vegetation, To: components.Herbivore, Color: rl.Color{G: 150, A: 150}})
	}
	if alive(components.Herbivore, components.Predator) {
		links = append(links, Link{From: components.Herbivore, To: components.Predator, Color: rl.Color{R: 150, A: 150}})
	}
	if alive(components.Mesopredator, components.Vegetation) {
		links = append(links, Link{From: components.Mesopredator, To: components.Vegetation, Color: rl.Color{R: 255, G: 255, A: 150}, Dashed: true})
	}
	return links
}

// IndicatorSize maps a population onto a blob diameter in [10, 100].
func IndicatorSize(pop float64) float32 {
	size := 10 + pop/1000*90
	return float32(math.Max(10, math.Min(100, size)))
}

// IndicatorCount returns how many blobs represent a population, at most 10.
func IndicatorCount(pop float64) int {
	if pop <= 0 {
		return 0
	}
	return int(math.Min(10, math.Ceil(pop/50)))
}

// FoodWeb draws the four populations as clustered blobs joined by
// trophic links.
type FoodWeb struct {
	bounds rl.Rectangle
}

// NewFoodWeb creates a food web scene occupying bounds.
func NewFoodWeb(bounds rl.Rectangle) *FoodWeb {
	return &FoodWeb{bounds: bounds}
}

// anchor returns the centre of a species' cluster.
func (f *FoodWeb) anchor(sp components.Species) rl.Vector2 {
	slot := f.bounds.Width / float32(components.NumSpecies)
	return rl.Vector2{
		X: f.bounds.X + slot*(float32(sp)+0.5),
		Y: f.bounds.Y + f.bounds.Height/2,
	}
}

// Draw renders the scene. When seasons are shown the background takes the
// season's color.
func (f *FoodWeb) Draw(p components.Populations, background rl.Color) {
	rl.DrawRectangleRec(f.bounds, background)

	for _, l := range FoodWebLinks(p) {
		from, to := f.anchor(l.From), f.anchor(l.To)
		if l.Dashed {
			drawDashedLine(from, to, 5, 3, 2, l.Color)
		} else {
			rl.DrawLineEx(from, to, 2, l.Color)
		}
	}

	for sp := components.Species(0); sp < components.NumSpecies; sp++ {
		f.drawIndicator(sp, p[sp])
	}
}

// drawIndicator draws a cluster of blobs. Offsets follow the golden angle
// so the cluster is stable from frame to frame.
func (f *FoodWeb) drawIndicator(sp components.Species, pop float64) {
	c := f.anchor(sp)
	size := IndicatorSize(pop)
	color := SpeciesColors[sp]

	n := IndicatorCount(pop)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2.399963
		r := float64(size) / 2 * math.Sqrt(float64(i)/10)
		pos := rl.Vector2{
			X: c.X + float32(r*math.Cos(angle)),
			Y: c.Y + float32(r*math.Sin(angle))*2/3,
		}
		rl.DrawCircleV(pos, size/2, WithAlpha(color, 0.85))
	}

	label := fmt.Sprintf("%s: %.0f", sp, pop)
	w := rl.MeasureText(label, 12)
	rl.DrawText(label, int32(c.X)-w/2, int32(c.Y+size/2+20), 12, rl.Black)
}

func drawDashedLine(from, to rl.Vector2, dash, gap, thick float32, color rl.Color) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	for d := float32(0); d < length; d += dash + gap {
		end := min(d+dash, length)
		rl.DrawLineEx(
			rl.Vector2{X: from.X + ux*d, Y: from.Y + uy*d},
			rl.Vector2{X: from.X + ux*end, Y: from.Y + uy*end},
			thick, color,
		)
	}
}
