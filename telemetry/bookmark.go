package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHerbivoreCrash   BookmarkType = "herbivore_crash"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkKeystoneCollapse BookmarkType = "keystone_collapse"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Detection thresholds.
const (
	crashDrop           = 0.30
	crashMinLoss        = 10.0
	recoveryCritical    = 3.0
	recoveryFactor      = 3.0
	recoveryMinimum     = 6.0
	stableLookback      = 4
	stableMaxCV         = 0.2
	stableWindowsToFlag = 5
	stableMinGrass      = 50.0
	stableMinAnimals    = 3.0
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable turns in the population dynamics from
// consecutive window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentDevilMin      float64 // -1 until the first window
	recentHerbivorePeak float64
	stableWindowsCount  int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableLookback+1 {
		historySize = stableLookback + 1
	}
	return &BookmarkDetector{
		history:        make([]WindowStats, historySize),
		historySize:    historySize,
		recentDevilMin: -1,
	}
}

// Reset forgets all history.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.recentDevilMin = -1
	bd.recentHerbivorePeak = 0
	bd.stableWindowsCount = 0
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkHerbivoreCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkKeystoneCollapse(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	// Stability looks at the window just added
	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.recentDevilMin < 0 || stats.Devils < bd.recentDevilMin {
		bd.recentDevilMin = stats.Devils
	}
	if stats.Pademelons > bd.recentHerbivorePeak {
		bd.recentHerbivorePeak = stats.Pademelons
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	if n > size {
		n = size
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkHerbivoreCrash(stats WindowStats) *Bookmark {
	if bd.recentHerbivorePeak <= 0 {
		return nil
	}

	drop := 1 - stats.Pademelons/bd.recentHerbivorePeak
	if drop > crashDrop && stats.Pademelons < bd.recentHerbivorePeak-crashMinLoss {
		oldPeak := bd.recentHerbivorePeak
		bd.recentHerbivorePeak = stats.Pademelons

		return &Bookmark{
			Type:        BookmarkHerbivoreCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Pademelons crashed %.0f%% from peak %.0f to %.0f", drop*100, oldPeak, stats.Pademelons),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentDevilMin < 0 || bd.recentDevilMin > recoveryCritical {
		return nil
	}

	threshold := bd.recentDevilMin * recoveryFactor
	if stats.Devils >= threshold && stats.Devils >= recoveryMinimum {
		oldMin := bd.recentDevilMin
		bd.recentDevilMin = stats.Devils

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Devil population recovered from %.1f to %.1f", oldMin, stats.Devils),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkKeystoneCollapse(stats WindowStats) *Bookmark {
	prev := bd.recent(1)
	if len(prev) == 0 || prev[0].Bandicoots <= 0 || stats.Bandicoots > 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkKeystoneCollapse,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Bandicoots died out (were %.1f)", prev[0].Bandicoots),
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.Grass < stableMinGrass || stats.Pademelons < stableMinAnimals ||
		stats.Devils < stableMinAnimals || stats.Bandicoots < stableMinAnimals {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.recent(stableLookback)
	if len(history) < stableLookback {
		return nil
	}

	stable := true
	series := make([]float64, len(history))
	for sp := range stats.End() {
		for i, h := range history {
			series[i] = h.End()[sp]
		}
		if ComputeSpeciesStats(series).CV() >= stableMaxCV {
			stable = false
			break
		}
	}

	if stable {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindowsToFlag {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem over %d windows, biodiversity %.2f", stableWindowsToFlag+stableLookback-1, meanBiodiversity(history)),
		}
	}
	return nil
}

func meanBiodiversity(history []WindowStats) float64 {
	values := make([]float64, len(history))
	for i, h := range history {
		values[i] = h.BiodiversityEnd
	}
	return stat.Mean(values, nil)
}
