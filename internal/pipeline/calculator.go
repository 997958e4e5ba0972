package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bricklab/ratelens/internal/config"
	"github.com/bricklab/ratelens/internal/message"
)

// Calculator buckets incoming samples into per-stream tumbling windows and
// computes sampling-rate statistics for every completed window with the
// same engine the batch analyzer uses.
type Calculator struct {
	cfg     config.LiveConfig
	streams map[string]config.StreamConfig
	input   <-chan message.Sample
	output  chan<- WindowResult
	logger  *zap.Logger

	mu      sync.Mutex
	windows map[time.Time]*windowInfo
}

// NewCalculator creates a new Calculator instance.
func NewCalculator(cfg config.LiveConfig, input <-chan message.Sample, output chan<- WindowResult, logger *zap.Logger) *Calculator {
	streams := make(map[string]config.StreamConfig, len(cfg.Streams))
	for _, s := range cfg.Streams {
		streams[s.Name] = s
	}

	c := &Calculator{
		cfg:     cfg,
		streams: streams,
		input:   input,
		output:  output,
		logger:  logger,
		windows: make(map[time.Time]*windowInfo),
	}
	logger.Info("Rate calculator initialized",
		zap.Duration("window", cfg.Window),
		zap.Int("configured_streams", len(streams)),
	)
	return c
}

// Run starts the calculator's processing loop.
func (c *Calculator) Run(ctx context.Context) error {
	sugar := c.logger.Sugar()
	sugar.Info("Starting rate calculator loop...")
	defer sugar.Info("Rate calculator loop stopped.")

	ticker := time.NewTicker(c.cfg.Window)
	defer ticker.Stop()

	for {
		select {
		case sample, ok := <-c.input:
			if !ok {
				sugar.Info("Calculator input channel closed. Flushing final windows...")
				c.flushWindows(time.Now())
				return nil
			}
			c.processSample(sample)

		case tickTime := <-ticker.C:
			sugar.Debugw("Ticker fired, flushing completed windows", zap.Time("tick_time", tickTime))
			c.flushWindows(tickTime)

		case <-ctx.Done():
			sugar.Info("Context cancelled, stopping calculator. Flushing final windows...")
			c.flushWindows(time.Now())
			return ctx.Err()
		}
	}
}

// processSample routes one sample into its stream's current window.
func (c *Calculator) processSample(sample message.Sample) {
	streamName, ok := sample.Stream()
	if !ok {
		c.logger.Debug("Sample without a stream name, dropping")
		return
	}
	streamCfg, configured := c.streams[streamName]
	if !configured {
		c.logger.Debug("Sample for unconfigured stream, dropping", zap.String("stream", streamName))
		return
	}

	now := time.Now()
	windowEnd := now.Truncate(c.cfg.Window).Add(c.cfg.Window)
	sw := c.getOrCreateStreamWindow(windowEnd, streamName)

	sw.received++
	ts, ok := sample.Timestamp(streamCfg.TimeField)
	if !ok {
		sw.dropped++
		c.logger.Sugar().Warnw("Sample timestamp missing or malformed",
			zap.String("stream", streamName),
			zap.String("time_field", streamCfg.TimeField),
			zap.String("value_snippet", sample.FieldSnippet(streamCfg.TimeField, 50)),
		)
		return
	}

	// First usable sample decides whether this window is numeric or
	// textual; mixed-shape samples are dropped rather than guessed at.
	if !sw.started {
		sw.started = true
		sw.textual = ts.IsText
	}
	if ts.IsText != sw.textual {
		sw.dropped++
		c.logger.Sugar().Warnw("Sample timestamp shape differs from window, dropping",
			zap.String("stream", streamName),
			zap.Bool("window_textual", sw.textual),
		)
		return
	}

	if ts.IsText {
		sw.text = append(sw.text, ts.Text)
	} else {
		sw.numeric = append(sw.numeric, ts.Numeric)
	}
}

// getOrCreateStreamWindow retrieves or initializes the accumulator for a
// given window/stream. It acquires and releases the lock internally.
func (c *Calculator) getOrCreateStreamWindow(windowEnd time.Time, streamName string) *streamWindow {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, exists := c.windows[windowEnd]
	if !exists {
		w = newWindowInfo(windowEnd.Add(-c.cfg.Window), windowEnd)
		c.windows[windowEnd] = w
		c.logger.Debug("Created new window state", zap.Time("window_end", windowEnd))
	}

	sw, exists := w.streams[streamName]
	if !exists {
		sw = &streamWindow{}
		w.streams[streamName] = sw
	}
	return sw
}

// flushWindows computes and emits results for every window completed by
// cutoffTime and removes them from the state.
func (c *Calculator) flushWindows(cutoffTime time.Time) {
	completed := c.collectCompletedWindows(cutoffTime)
	if len(completed) == 0 {
		return
	}

	c.logger.Debug("Processing completed windows",
		zap.Time("cutoff_time", cutoffTime),
		zap.Int("window_count", len(completed)),
	)

	for _, w := range completed {
		c.emitWindowResults(w)
	}
}

// collectCompletedWindows removes and returns every window whose end time
// is at or before the cutoff.
func (c *Calculator) collectCompletedWindows(cutoffTime time.Time) []*windowInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	var completed []*windowInfo
	for windowEnd, w := range c.windows {
		if !windowEnd.After(cutoffTime) {
			completed = append(completed, w)
			delete(c.windows, windowEnd)
		}
	}
	return completed
}

// emitWindowResults computes per-stream statistics for one completed
// window and sends them downstream.
func (c *Calculator) emitWindowResults(w *windowInfo) {
	sugar := c.logger.Sugar()

	for streamName, sw := range w.streams {
		if sw.received == 0 {
			continue
		}

		result := c.computeWindowResult(streamName, w, sw)

		select {
		case c.output <- result:
			sugar.Debugw("Sent window result",
				zap.String("stream", streamName),
				zap.Time("window_end", w.windowEnd),
			)
		default:
			sugar.Warnw("Calculator output channel full, dropping result",
				zap.String("stream", streamName),
				zap.Time("window_end", w.windowEnd),
			)
		}
	}
}
