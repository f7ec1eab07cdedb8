package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ecosim/components"
)

// Sample is one row of the population time series.
type Sample struct {
	Time       int     `csv:"Time"`
	Grass      float64 `csv:"Grass"`
	Pademelons float64 `csv:"Pademelons"`
	Devils     float64 `csv:"Devils"`
	Bandicoots float64 `csv:"Bandicoots"`
}

// SampleOf captures the populations of state at its current tick.
func SampleOf(state *components.EcosystemState) Sample {
	return Sample{
		Time:       state.TickCount,
		Grass:      state.Vegetation,
		Pademelons: state.Herbivore,
		Devils:     state.Predator,
		Bandicoots: state.Mesopredator,
	}
}

// Populations returns the sample as a per-species array.
func (s Sample) Populations() components.Populations {
	return components.Populations{s.Grass, s.Pademelons, s.Devils, s.Bandicoots}
}

// Recorder keeps the population series twice: a bounded ring for live
// display and an export buffer that grows until Reset.
type Recorder struct {
	live     []Sample
	liveSize int
	liveIdx  int
	liveFull bool

	export []Sample
}

// NewRecorder creates a recorder whose live view holds liveSize samples.
func NewRecorder(liveSize int) *Recorder {
	if liveSize < 1 {
		liveSize = 1
	}
	return &Recorder{
		live:     make([]Sample, liveSize),
		liveSize: liveSize,
	}
}

// Record appends a sample to both buffers.
func (r *Recorder) Record(s Sample) {
	r.live[r.liveIdx] = s
	r.liveIdx = (r.liveIdx + 1) % r.liveSize
	if r.liveIdx == 0 {
		r.liveFull = true
	}
	r.export = append(r.export, s)
}

// Live returns the most recent samples, oldest first.
func (r *Recorder) Live() []Sample {
	if !r.liveFull {
		out := make([]Sample, r.liveIdx)
		copy(out, r.live[:r.liveIdx])
		return out
	}
	out := make([]Sample, 0, r.liveSize)
	out = append(out, r.live[r.liveIdx:]...)
	out = append(out, r.live[:r.liveIdx]...)
	return out
}

// Len returns the number of samples in the export buffer.
func (r *Recorder) Len() int {
	return len(r.export)
}

// Reset clears both buffers.
func (r *Recorder) Reset() {
	clear(r.live)
	r.liveIdx = 0
	r.liveFull = false
	r.export = r.export[:0]
}

// WriteCSV writes the export buffer with a Time,Grass,Pademelons,Devils,Bandicoots
// header. An empty buffer still produces the header line.
func (r *Recorder) WriteCSV(w io.Writer) error {
	if len(r.export) == 0 {
		if _, err := io.WriteString(w, "Time,Grass,Pademelons,Devils,Bandicoots\n"); err != nil {
			return fmt.Errorf("writing series header: %w", err)
		}
		return nil
	}
	if err := gocsv.Marshal(r.export, w); err != nil {
		return fmt.Errorf("writing series: %w", err)
	}
	return nil
}
