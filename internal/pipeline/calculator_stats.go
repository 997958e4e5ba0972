package pipeline

import (
	"errors"

	"go.uber.org/zap"

	"github.com/bricklab/ratelens/internal/config"
	"github.com/bricklab/ratelens/internal/samplerate"
)

// computeWindowResult normalizes one stream's raw window timestamps and
// computes its sampling-rate statistics. A window that cannot support the
// computation (too few samples, unparseable text, all intervals
// degenerate) yields a result with nil Stats so the alerter still sees
// the received/dropped counts.
func (c *Calculator) computeWindowResult(streamName string, w *windowInfo, sw *streamWindow) WindowResult {
	result := WindowResult{
		Stream:      streamName,
		WindowStart: w.windowStart,
		WindowEnd:   w.windowEnd,
		Received:    sw.received,
		Dropped:     sw.dropped,
	}

	norm, err := c.normalizeWindow(streamName, sw)
	if err != nil {
		c.logger.Sugar().Warnw("Failed to normalize window timestamps",
			zap.String("stream", streamName),
			zap.Error(err),
		)
		return result
	}
	result.UnitAssumed = norm.UnitAssumed

	stats, err := samplerate.ComputeStats(norm.Elapsed)
	if err != nil {
		if errors.Is(err, samplerate.ErrInsufficientSamples) {
			c.logger.Debug("Window too small for rate statistics",
				zap.String("stream", streamName),
				zap.Int("received", sw.received),
			)
		} else {
			c.logger.Sugar().Warnw("Failed to compute window statistics",
				zap.String("stream", streamName),
				zap.Error(err),
			)
		}
		return result
	}

	result.Stats = stats
	return result
}

// normalizeWindow picks the normalization branch for the window: textual
// parsing for textual windows, unit detection (or the stream's configured
// override) for numeric ones.
func (c *Calculator) normalizeWindow(streamName string, sw *streamWindow) (*samplerate.Normalized, error) {
	if sw.textual {
		return samplerate.NormalizeText(sw.text)
	}

	unit := c.streamUnit(streamName)
	if unit != samplerate.UnitUnknown {
		return samplerate.NormalizeNumericAs(sw.numeric, unit)
	}
	return samplerate.NormalizeNumeric(sw.numeric)
}

// streamUnit returns the stream's configured unit override, UnitUnknown
// when the stream relies on detection. Config validation already rejected
// unparseable unit names.
func (c *Calculator) streamUnit(streamName string) samplerate.Unit {
	cfg, ok := c.streams[streamName]
	if !ok {
		return samplerate.UnitUnknown
	}
	unit, _ := samplerate.ParseUnit(cfg.Unit)
	return unit
}

// streamThresholds exposes a stream's configured rate band to the alerter.
func streamThresholds(streams []config.StreamConfig, name string) (config.Thresholds, bool) {
	for _, s := range streams {
		if s.Name == name {
			return s.Thresholds, true
		}
	}
	return config.Thresholds{}, false
}
