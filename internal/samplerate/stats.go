package samplerate

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Stats is the sampling-rate summary of one normalized time series.
// All rate figures are in Hz. Computed once per column; immutable.
type Stats struct {
	AverageHz       float64
	MedianHz        float64
	StdDevHz        float64
	MinHz           float64
	MaxHz           float64
	DurationSeconds float64
	// SampleCount is the length of the original column, not of the
	// interval sequence.
	SampleCount int
	// DegenerateIntervals counts zero or negative inter-sample intervals
	// (duplicate or out-of-order timestamps). Their 1/dt rates are
	// undefined or meaningless, so they are excluded from the aggregates
	// above rather than letting Inf or negative rates pollute them.
	DegenerateIntervals int
}

// ComputeStats derives inter-sample intervals from an elapsed-seconds
// series and aggregates the instantaneous rates 1/dt. The standard
// deviation is the sample standard deviation (n-1).
//
// Fewer than 2 samples, or a series whose every interval is degenerate,
// fails with ErrInsufficientSamples.
func ComputeStats(elapsed []float64) (*Stats, error) {
	if len(elapsed) < 2 {
		return nil, fmt.Errorf("%w: got %d samples", ErrInsufficientSamples, len(elapsed))
	}

	rates := make([]float64, 0, len(elapsed)-1)
	degenerate := 0
	for i := 1; i < len(elapsed); i++ {
		dt := elapsed[i] - elapsed[i-1]
		if dt <= 0 {
			degenerate++
			continue
		}
		rates = append(rates, 1/dt)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: all %d intervals are degenerate", ErrInsufficientSamples, degenerate)
	}

	avg, err := stats.Mean(rates)
	if err != nil {
		return nil, fmt.Errorf("aggregating rates: %w", err)
	}
	median, err := stats.Median(rates)
	if err != nil {
		return nil, fmt.Errorf("aggregating rates: %w", err)
	}
	// Sample standard deviation is undefined for a single interval; a lone
	// interval legitimately has no spread.
	stdDev := 0.0
	if len(rates) > 1 {
		stdDev, err = stats.StandardDeviationSample(rates)
		if err != nil {
			return nil, fmt.Errorf("aggregating rates: %w", err)
		}
	}
	min, err := stats.Min(rates)
	if err != nil {
		return nil, fmt.Errorf("aggregating rates: %w", err)
	}
	max, err := stats.Max(rates)
	if err != nil {
		return nil, fmt.Errorf("aggregating rates: %w", err)
	}

	return &Stats{
		AverageHz:           avg,
		MedianHz:            median,
		StdDevHz:            stdDev,
		MinHz:               min,
		MaxHz:               max,
		DurationSeconds:     elapsed[len(elapsed)-1] - elapsed[0],
		SampleCount:         len(elapsed),
		DegenerateIntervals: degenerate,
	}, nil
}
