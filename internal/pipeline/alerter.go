package pipeline

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/bricklab/ratelens/internal/config"
)

// Prometheus Metrics Definition
var (
	streamReceived = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratelens_stream_window_received_total",
			Help: "Number of samples received for a stream in the last window.",
		},
		[]string{"stream"},
	)
	streamDropped = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratelens_stream_window_dropped_total",
			Help: "Number of samples dropped (missing or malformed timestamp) for a stream in the last window.",
		},
		[]string{"stream"},
	)
	streamAverageHz = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratelens_stream_window_average_hz",
			Help: "Average sampling rate for a stream in the last window.",
		},
		[]string{"stream"},
	)
	streamMedianHz = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratelens_stream_window_median_hz",
			Help: "Median sampling rate for a stream in the last window.",
		},
		[]string{"stream"},
	)
	streamMinHz = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratelens_stream_window_min_hz",
			Help: "Minimum instantaneous sampling rate for a stream in the last window.",
		},
		[]string{"stream"},
	)
	streamMaxHz = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratelens_stream_window_max_hz",
			Help: "Maximum instantaneous sampling rate for a stream in the last window.",
		},
		[]string{"stream"},
	)
	streamStdDevHz = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratelens_stream_window_stddev_hz",
			Help: "Sample standard deviation of the sampling rate for a stream in the last window.",
		},
		[]string{"stream"},
	)
	streamDegenerate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratelens_stream_window_degenerate_intervals",
			Help: "Zero or negative inter-sample intervals excluded from rate statistics in the last window.",
		},
		[]string{"stream"},
	)
	streamViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelens_stream_rate_violations_total",
			Help: "Total number of rate threshold violations detected per stream and check.",
		},
		[]string{"stream", "check", "comparison"},
	)
)

// Alerter receives window results, exports them as Prometheus metrics, and
// warns when a stream leaves its configured rate band.
type Alerter struct {
	streams []config.StreamConfig
	input   <-chan WindowResult
	logger  *zap.Logger
}

// NewAlerter creates a new Alerter instance.
func NewAlerter(streams []config.StreamConfig, input <-chan WindowResult, logger *zap.Logger) *Alerter {
	logger.Debug("Alerter initialized", zap.Int("stream_count", len(streams)))
	return &Alerter{
		streams: streams,
		input:   input,
		logger:  logger,
	}
}

// Run starts the alerter's processing loop.
func (a *Alerter) Run(ctx context.Context) error {
	sugar := a.logger.Sugar()
	sugar.Info("Starting alerter loop...")
	defer sugar.Info("Alerter loop stopped.")

	for {
		select {
		case result, ok := <-a.input:
			if !ok {
				sugar.Info("Alerter input channel closed.")
				return nil
			}
			a.processResult(result)

		case <-ctx.Done():
			sugar.Info("Context cancelled, stopping alerter.")
			return ctx.Err()
		}
	}
}

// processResult updates the Prometheus gauges and runs the threshold checks.
func (a *Alerter) processResult(result WindowResult) {
	sugar := a.logger.Sugar()
	stream := result.Stream

	streamReceived.WithLabelValues(stream).Set(float64(result.Received))
	streamDropped.WithLabelValues(stream).Set(float64(result.Dropped))

	if result.Stats == nil {
		sugar.Debugw("Window result without statistics",
			zap.String("stream", stream),
			zap.Int("received", result.Received),
			zap.Int("dropped", result.Dropped),
		)
		return
	}

	s := result.Stats
	streamAverageHz.WithLabelValues(stream).Set(s.AverageHz)
	streamMedianHz.WithLabelValues(stream).Set(s.MedianHz)
	streamMinHz.WithLabelValues(stream).Set(s.MinHz)
	streamMaxHz.WithLabelValues(stream).Set(s.MaxHz)
	streamStdDevHz.WithLabelValues(stream).Set(s.StdDevHz)
	streamDegenerate.WithLabelValues(stream).Set(float64(s.DegenerateIntervals))

	if result.UnitAssumed {
		sugar.Warnw("Stream timestamp unit assumed (nanoseconds); consider configuring unit explicitly",
			zap.String("stream", stream),
			zap.Time("window_end", result.WindowEnd),
		)
	}

	thresholds, configured := streamThresholds(a.streams, stream)
	if configured {
		a.checkRateBand(stream, result.WindowEnd, s.AverageHz, thresholds)
		a.checkDegenerate(stream, result.WindowEnd, s.DegenerateIntervals, thresholds.MaxDegenerate)
	}

	sugar.Infow("Window statistics",
		zap.String("stream", stream),
		zap.Time("window_end", result.WindowEnd),
		zap.Int("received", result.Received),
		zap.Int("dropped", result.Dropped),
		zap.Float64("average_hz", s.AverageHz),
		zap.Float64("median_hz", s.MedianHz),
		zap.Float64("stddev_hz", s.StdDevHz),
		zap.Int("degenerate_intervals", s.DegenerateIntervals),
	)
}

// checkRateBand warns when the measured average rate leaves [minHz, maxHz].
func (a *Alerter) checkRateBand(stream string, windowEnd time.Time, averageHz float64, thresholds config.Thresholds) {
	sugar := a.logger.Sugar()

	if thresholds.MinHz != nil && averageHz < *thresholds.MinHz {
		streamViolations.WithLabelValues(stream, "average_hz", "<").Inc()
		sugar.Warnw("Sampling rate below expected band",
			zap.String("stream", stream),
			zap.Time("window_end", windowEnd),
			zap.Float64("actual_hz", averageHz),
			zap.Float64("min_hz", *thresholds.MinHz),
		)
	}
	if thresholds.MaxHz != nil && averageHz > *thresholds.MaxHz {
		streamViolations.WithLabelValues(stream, "average_hz", ">").Inc()
		sugar.Warnw("Sampling rate above expected band",
			zap.String("stream", stream),
			zap.Time("window_end", windowEnd),
			zap.Float64("actual_hz", averageHz),
			zap.Float64("max_hz", *thresholds.MaxHz),
		)
	}
}

// checkDegenerate warns when duplicate/out-of-order timestamps exceed the
// configured tolerance.
func (a *Alerter) checkDegenerate(stream string, windowEnd time.Time, degenerate int, limit *int) {
	if limit == nil || degenerate <= *limit {
		return
	}
	streamViolations.WithLabelValues(stream, "degenerate_intervals", ">").Inc()
	a.logger.Sugar().Warnw("Degenerate interval count above tolerance",
		zap.String("stream", stream),
		zap.Time("window_end", windowEnd),
		zap.Int("degenerate_intervals", degenerate),
		zap.Int("limit", *limit),
	)
}
