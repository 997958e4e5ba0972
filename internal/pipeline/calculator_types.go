package pipeline

import (
	"time"

	"github.com/bricklab/ratelens/internal/samplerate"
)

// WindowResult is the sampling-rate summary of one stream over one
// tumbling window. Stats is nil when the window held too few usable
// samples for the rate to be defined.
type WindowResult struct {
	Stream      string
	WindowStart time.Time
	WindowEnd   time.Time
	Received    int
	Dropped     int
	UnitAssumed bool
	Stats       *samplerate.Stats
}

// streamWindow accumulates the raw timestamps of one stream within one
// window, in arrival order. A stream is either numeric or textual for the
// whole window; samples of the other shape are dropped and counted.
type streamWindow struct {
	numeric  []float64
	text     []string
	textual  bool
	started  bool
	received int
	dropped  int
}

// windowInfo holds the per-stream state of a single tumbling window.
type windowInfo struct {
	windowStart time.Time
	windowEnd   time.Time
	streams     map[string]*streamWindow
}

func newWindowInfo(start, end time.Time) *windowInfo {
	return &windowInfo{
		windowStart: start,
		windowEnd:   end,
		streams:     make(map[string]*streamWindow),
	}
}
