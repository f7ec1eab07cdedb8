package ui

import (
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/notify"
	"github.com/pthm-cable/ecosim/telemetry"
)

func TestHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want rl.Color
	}{
		{"#4CAF50", rl.Color{R: 0x4c, G: 0xaf, B: 0x50, A: 255}},
		{"f7d794", rl.Color{R: 0xf7, G: 0xd7, B: 0x94, A: 255}},
		{"#fff", rl.Gray},
		{"#zzzzzz", rl.Gray},
		{"", rl.Gray},
	}
	for _, tt := range tests {
		if got := HexColor(tt.in); got != tt.want {
			t.Errorf("HexColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestLerpColor(t *testing.T) {
	red := rl.Color{R: 255, A: 255}
	green := rl.Color{G: 255, A: 255}

	if got := LerpColor(red, green, 0); got != red {
		t.Errorf("t=0: %+v", got)
	}
	if got := LerpColor(red, green, 1); got != green {
		t.Errorf("t=1: %+v", got)
	}
	if got := LerpColor(red, green, 2); got != green {
		t.Errorf("t clamps above 1: %+v", got)
	}
	mid := LerpColor(red, green, 0.5)
	if mid.R != 128 || mid.G != 128 {
		t.Errorf("t=0.5: %+v", mid)
	}
}

func TestFieldRangeNormalize(t *testing.T) {
	r := FieldRange{Min: 0, Max: 40}
	for _, tt := range []struct{ in, want float32 }{
		{-5, 0}, {0, 0}, {10, 0.25}, {40, 1}, {80, 1},
	} {
		if got := r.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := (FieldRange{Min: 1, Max: 1}).Normalize(1); got != 0 {
		t.Errorf("empty range = %v, want 0", got)
	}
}

func TestChartScale(t *testing.T) {
	tests := []struct {
		peak float64
		want float64
	}{
		{0, 10},
		{7, 10},
		{11, 20},
		{48, 50},
		{100, 100},
		{101, 200},
		{1499, 2000},
	}
	for _, tt := range tests {
		samples := []telemetry.Sample{{Time: 1, Devils: tt.peak}}
		if got := ChartScale(samples); got != tt.want {
			t.Errorf("ChartScale(peak %v) = %v, want %v", tt.peak, got, tt.want)
		}
	}
}

func TestChartPoints(t *testing.T) {
	bounds := rl.Rectangle{X: 10, Y: 20, Width: 100, Height: 50}
	samples := []telemetry.Sample{
		{Time: 1, Grass: 0},
		{Time: 2, Grass: 50},
		{Time: 3, Grass: 200},
	}

	pts := ChartPoints(samples, components.Vegetation, bounds, 100)
	want := []rl.Vector2{{X: 10, Y: 70}, {X: 60, Y: 45}, {X: 110, Y: 20}}
	if len(pts) != len(want) {
		t.Fatalf("got %d points, want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, pts[i], want[i])
		}
	}

	if ChartPoints(nil, components.Vegetation, bounds, 100) != nil {
		t.Error("empty series should yield no points")
	}
}

func TestFoodWebLinks(t *testing.T) {
	has := func(links []Link, from, to components.Species) *Link {
		for i := range links {
			if links[i].From == from && links[i].To == to {
				return &links[i]
			}
		}
		return nil
	}

	all := FoodWebLinks(components.Populations{100, 50, 20, 30})
	if len(all) != 3 {
		t.Fatalf("got %d links, want 3", len(all))
	}
	keystone := has(all, components.Mesopredator, components.Vegetation)
	if keystone == nil || !keystone.Dashed {
		t.Error("keystone link should be drawn dashed")
	}
	if l := has(all, components.Vegetation, components.Herbivore); l == nil || l.Dashed {
		t.Error("grazing link should be solid")
	}

	// Exactly 10 is not enough
	few := FoodWebLinks(components.Populations{100, 50, 10, 10})
	if len(few) != 1 || has(few, components.Vegetation, components.Herbivore) == nil {
		t.Errorf("links = %+v, want only grazing", few)
	}
}

func TestIndicator(t *testing.T) {
	if got := IndicatorSize(0); got != 10 {
		t.Errorf("size(0) = %v", got)
	}
	if got := IndicatorSize(500); got != 55 {
		t.Errorf("size(500) = %v", got)
	}
	if got := IndicatorSize(5000); got != 100 {
		t.Errorf("size(5000) = %v", got)
	}

	for _, tt := range []struct {
		pop  float64
		want int
	}{
		{0, 0}, {1, 1}, {50, 1}, {51, 2}, {499, 10}, {2000, 10},
	} {
		if got := IndicatorCount(tt.pop); got != tt.want {
			t.Errorf("IndicatorCount(%v) = %d, want %d", tt.pop, got, tt.want)
		}
	}
}

func TestKeyMapLegend(t *testing.T) {
	km := NewKeyMap()
	legend := km.Legend()
	if !strings.HasPrefix(legend, "[Space] Pause  [R] Reset") {
		t.Errorf("legend = %q", legend)
	}

	km.Register(KeyBinding{ID: ActionReset, Name: "Restart", Key: rl.KeyR, KeyLabel: "R"})
	if b, _ := km.Get(ActionReset); b.Name != "Restart" {
		t.Errorf("re-register did not replace binding: %+v", b)
	}
	if n := len(km.Bindings()); n != 9 {
		t.Errorf("bindings = %d, want 9", n)
	}
	if !strings.Contains(km.Legend(), "[R] Restart") {
		t.Errorf("legend not updated: %q", km.Legend())
	}
}

func TestToastText(t *testing.T) {
	award := notify.Toast{Kind: components.NotifyAchievement, Text: "Grass Guardian", Points: 300}
	if got := ToastText(award); got != "Grass Guardian (+300)" {
		t.Errorf("award text = %q", got)
	}
	badge := notify.Toast{Kind: components.NotifyBadge, Text: "Ranger"}
	if got := ToastText(badge); got != "Ranger" {
		t.Errorf("badge text = %q", got)
	}
	fire := notify.Toast{Kind: components.NotifyDisturbance, Color: "#ff5722"}
	if got := ToastColor(fire); got != HexColor("#ff5722") {
		t.Errorf("disturbance color = %+v", got)
	}
}
