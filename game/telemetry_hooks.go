package game

import (
	"log/slog"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// onDisturbance records a disaster that was applied this tick.
func (g *Game) onDisturbance(d systems.Disturbance) {
	g.active = &d
	g.activeTick = g.state.TickCount
	g.collector.RecordDisturbance(d.Kind)
	g.notify(components.Notification{
		Kind:     components.NotifyDisturbance,
		Text:     d.Message(),
		Color:    d.Color(),
		Duration: components.DisturbanceDisplay,
	})
	slog.Info("disaster",
		"tick", g.state.TickCount,
		"kind", d.Kind.String(),
		"severity", d.Severity,
		"count", g.state.Disasters,
	)
}

func (g *Game) onNarrative(msg string) {
	g.collector.RecordNarrative()
	g.notify(components.Notification{
		Kind:     components.NotifyNarrative,
		Text:     msg,
		Duration: components.NarrativeDisplay,
	})
	slog.Debug("narrative", "tick", g.state.TickCount, "message", msg)
}

func (g *Game) onAward(a systems.Award) {
	g.collector.RecordAward(a.Points)
	g.notify(components.Notification{
		Kind:     components.NotifyAchievement,
		Text:     a.Description,
		Points:   a.Points,
		Duration: components.AchievementDisplay,
	})
	slog.Info("award",
		"tick", g.state.TickCount,
		"description", a.Description,
		"points", a.Points,
		"score", g.tracker.Score(),
	)
}

func (g *Game) onBadge() {
	g.notify(components.Notification{
		Kind:     components.NotifyBadge,
		Text:     "Congratulations! You've earned the Ranger Badge!",
		Duration: components.AchievementDisplay,
	})
	slog.Info("badge", "tick", g.state.TickCount, "score", g.tracker.Score())
}

// maxPending bounds the notification queue when nothing drains it, as in
// headless runs. The oldest entries are dropped first.
const maxPending = 64

func (g *Game) notify(n components.Notification) {
	n.Tick = g.state.TickCount
	if len(g.pending) >= maxPending {
		drop := len(g.pending) - maxPending + 1
		g.pending = append(g.pending[:0], g.pending[drop:]...)
	}
	g.pending = append(g.pending, n)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.state.TickCount) {
		return
	}

	stats := g.collector.Flush(&g.state, g.tracker.Score())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
