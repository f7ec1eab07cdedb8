package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/components"
)

// SpeciesStats summarises one species over a window.
type SpeciesStats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// CV returns the coefficient of variation, or 0 when the mean is 0.
func (s SpeciesStats) CV() float64 {
	if s.Mean <= 0 {
		return 0
	}
	return s.Std / s.Mean
}

// ComputeSpeciesStats computes population statistics over values.
func ComputeSpeciesStats(values []float64) SpeciesStats {
	if len(values) == 0 {
		return SpeciesStats{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return SpeciesStats{Mean: mean, Std: std, Min: lo, Max: hi}
}

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int    `csv:"-"`
	WindowEndTick   int    `csv:"window_end"`
	Season          string `csv:"season"`
	Health          string `csv:"health"`

	// Populations at window end
	Grass      float64 `csv:"grass"`
	Pademelons float64 `csv:"pademelons"`
	Devils     float64 `csv:"devils"`
	Bandicoots float64 `csv:"bandicoots"`

	// Distribution over the window
	GrassMean      float64 `csv:"grass_mean"`
	GrassCV        float64 `csv:"grass_cv"`
	PademelonsMean float64 `csv:"pademelons_mean"`
	PademelonsCV   float64 `csv:"pademelons_cv"`
	DevilsMean     float64 `csv:"devils_mean"`
	DevilsCV       float64 `csv:"devils_cv"`
	BandicootsMean float64 `csv:"bandicoots_mean"`
	BandicootsCV   float64 `csv:"bandicoots_cv"`

	BiodiversityMean float64 `csv:"biodiversity_mean"`
	BiodiversityEnd  float64 `csv:"biodiversity"`
	CollapsedTicks   int     `csv:"collapsed_ticks"`

	// Events during window
	Bushfires  int `csv:"bushfires"`
	Outbreaks  int `csv:"outbreaks"`
	Droughts   int `csv:"droughts"`
	Narratives int `csv:"narratives"`
	Awards     int `csv:"awards"`
	Points     int `csv:"points"`
	Score      int `csv:"score"`
}

// Mean returns the per-species window means.
func (s WindowStats) Mean() components.Populations {
	return components.Populations{s.GrassMean, s.PademelonsMean, s.DevilsMean, s.BandicootsMean}
}

// End returns the per-species populations at window end.
func (s WindowStats) End() components.Populations {
	return components.Populations{s.Grass, s.Pademelons, s.Devils, s.Bandicoots}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.String("season", s.Season),
		slog.String("health", s.Health),
		slog.Float64("grass", s.Grass),
		slog.Float64("pademelons", s.Pademelons),
		slog.Float64("devils", s.Devils),
		slog.Float64("bandicoots", s.Bandicoots),
		slog.Float64("grass_cv", s.GrassCV),
		slog.Float64("pademelons_cv", s.PademelonsCV),
		slog.Float64("devils_cv", s.DevilsCV),
		slog.Float64("bandicoots_cv", s.BandicootsCV),
		slog.Float64("biodiversity_mean", s.BiodiversityMean),
		slog.Int("collapsed_ticks", s.CollapsedTicks),
		slog.Int("bushfires", s.Bushfires),
		slog.Int("outbreaks", s.Outbreaks),
		slog.Int("droughts", s.Droughts),
		slog.Int("narratives", s.Narratives),
		slog.Int("awards", s.Awards),
		slog.Int("points", s.Points),
		slog.Int("score", s.Score),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"season", s.Season,
		"health", s.Health,
		"grass", s.Grass,
		"pademelons", s.Pademelons,
		"devils", s.Devils,
		"bandicoots", s.Bandicoots,
		"biodiversity", s.BiodiversityEnd,
		"biodiversity_mean", s.BiodiversityMean,
		"collapsed_ticks", s.CollapsedTicks,
		"disasters", s.Bushfires+s.Outbreaks+s.Droughts,
		"narratives", s.Narratives,
		"awards", s.Awards,
		"score", s.Score,
	)
}
