package samplerate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats_FixedRateRoundTrip(t *testing.T) {
	// 1000 samples at exactly 100 Hz, unit = seconds.
	values := make([]float64, 1000)
	for i := range values {
		values[i] = 1_700_000_000 + float64(i)*0.01
	}
	norm, err := NormalizeNumericAs(values, UnitSeconds)
	require.NoError(t, err)

	s, err := ComputeStats(norm.Elapsed)
	require.NoError(t, err)

	assert.InEpsilon(t, 100.0, s.AverageHz, 0.005)
	assert.InEpsilon(t, 100.0, s.MedianHz, 0.005)
	assert.InDelta(t, 100.0, s.MinHz, 0.5)
	assert.InDelta(t, 100.0, s.MaxHz, 0.5)
	assert.InDelta(t, 9.99, s.DurationSeconds, 1e-6)
	assert.Equal(t, 1000, s.SampleCount)
	assert.Equal(t, 0, s.DegenerateIntervals)
}

func TestComputeStats_InsufficientSamples(t *testing.T) {
	_, err := ComputeStats(nil)
	assert.ErrorIs(t, err, ErrInsufficientSamples)

	_, err = ComputeStats([]float64{0})
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestComputeStats_DegenerateIntervalsExcluded(t *testing.T) {
	// Duplicate timestamp at index 2 and an out-of-order sample at index 4.
	elapsed := []float64{0, 0.5, 0.5, 1.0, 0.9, 1.4}

	s, err := ComputeStats(elapsed)
	require.NoError(t, err)

	assert.Equal(t, 2, s.DegenerateIntervals)
	assert.Equal(t, 6, s.SampleCount)
	// Remaining intervals are 0.5s each: no Inf or negative rate leaked in.
	assert.InDelta(t, 2.0, s.AverageHz, 1e-9)
	assert.InDelta(t, 2.0, s.MinHz, 1e-9)
	assert.InDelta(t, 2.0, s.MaxHz, 1e-9)
}

func TestComputeStats_AllIntervalsDegenerate(t *testing.T) {
	_, err := ComputeStats([]float64{0, 0, 0})
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestComputeStats_SampleStandardDeviation(t *testing.T) {
	// Intervals 1s, 0.5s, 0.25s -> rates 1, 2, 4 Hz.
	elapsed := []float64{0, 1, 1.5, 1.75}

	s, err := ComputeStats(elapsed)
	require.NoError(t, err)

	// mean 7/3; sample variance = sum((x-mean)^2)/(n-1) = 14/6.
	assert.InDelta(t, 7.0/3.0, s.AverageHz, 1e-9)
	assert.InDelta(t, 1.527525, s.StdDevHz, 1e-5)
	assert.InDelta(t, 2.0, s.MedianHz, 1e-9)
}

func TestComputeStats_SinglePositiveInterval(t *testing.T) {
	s, err := ComputeStats([]float64{0, 0.02})
	require.NoError(t, err)

	assert.InDelta(t, 50.0, s.AverageHz, 1e-9)
	assert.Equal(t, 0.0, s.StdDevHz)
}

func TestComputeStats_Idempotent(t *testing.T) {
	elapsed := []float64{0, 0.01, 0.021, 0.0305, 0.04}

	first, err := ComputeStats(elapsed)
	require.NoError(t, err)
	second, err := ComputeStats(elapsed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
