package samplerate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// repeatAround builds a column of n values clustered around base so the
// median lands on a value with the intended digit count.
func repeatAround(base float64, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = base + float64(i)
	}
	return values
}

func TestDetectUnit_DigitBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		median float64
		want   Unit
	}{
		{"9 digits is too small", 999_999_000, UnitUnknown},
		{"10 digits is seconds", 1_700_000_000, UnitSeconds},
		{"11 digits is seconds", 99_999_999_000, UnitSeconds},
		{"12 digits is milliseconds", 100_000_000_000, UnitMilliseconds},
		{"13 digits is milliseconds", 1_700_000_000_000, UnitMilliseconds},
		{"14 digits is milliseconds", 99_999_999_999_000, UnitMilliseconds},
		{"16 digits is microseconds", 1_700_000_000_000_000, UnitMicroseconds},
		{"19 digits is nanoseconds", 1.7e18, UnitNanoseconds},
		{"21 digits is unknown", 1e20 * 5, UnitUnknown},
		{"small counter values are unknown", 42, UnitUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectUnit(repeatAround(tt.median, 5))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectUnit_IgnoresSign(t *testing.T) {
	values := []float64{-1_700_000_000, -1_700_000_001, -1_700_000_002}
	assert.Equal(t, UnitSeconds, DetectUnit(values))
}

func TestDetectUnit_SkipsMissingValues(t *testing.T) {
	values := []float64{math.NaN(), math.NaN(), 1_700_000_000_000, 1_700_000_000_100}
	assert.Equal(t, UnitMilliseconds, DetectUnit(values))
}

func TestDetectUnit_EmptyAndAllMissing(t *testing.T) {
	assert.Equal(t, UnitUnknown, DetectUnit(nil))
	assert.Equal(t, UnitUnknown, DetectUnit([]float64{math.NaN(), math.NaN()}))
}

func TestDetectUnit_OnlyFirstHundredConsidered(t *testing.T) {
	// 100 second-scale values followed by a tail of nanosecond-scale
	// values; the tail must not influence the classification.
	values := repeatAround(1_700_000_000, 100)
	for i := 0; i < 100; i++ {
		values = append(values, 1.7e18)
	}
	assert.Equal(t, UnitSeconds, DetectUnit(values))
}

func TestParseUnit(t *testing.T) {
	for name, want := range map[string]Unit{
		"":            UnitUnknown,
		"auto":        UnitUnknown,
		"s":           UnitSeconds,
		"seconds":     UnitSeconds,
		"ms":          UnitMilliseconds,
		"us":          UnitMicroseconds,
		"nanoseconds": UnitNanoseconds,
	} {
		got, ok := ParseUnit(name)
		assert.True(t, ok, "ParseUnit(%q)", name)
		assert.Equal(t, want, got, "ParseUnit(%q)", name)
	}

	_, ok := ParseUnit("fortnights")
	assert.False(t, ok)
}

func TestUnitScale(t *testing.T) {
	assert.Equal(t, 1.0, UnitSeconds.Scale())
	assert.Equal(t, 1e3, UnitMilliseconds.Scale())
	assert.Equal(t, 1e6, UnitMicroseconds.Scale())
	assert.Equal(t, 1e9, UnitNanoseconds.Scale())
	// Unknown falls back to the nanosecond scale by convention.
	assert.Equal(t, 1e9, UnitUnknown.Scale())
}
