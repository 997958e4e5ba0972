package samplerate

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Unit is the inferred time unit of a raw numeric timestamp column.
type Unit int

const (
	UnitUnknown Unit = iota
	UnitSeconds
	UnitMilliseconds
	UnitMicroseconds
	UnitNanoseconds
)

// detectSampleSize caps how many leading values the detector inspects.
const detectSampleSize = 100

func (u Unit) String() string {
	switch u {
	case UnitSeconds:
		return "seconds"
	case UnitMilliseconds:
		return "milliseconds"
	case UnitMicroseconds:
		return "microseconds"
	case UnitNanoseconds:
		return "nanoseconds"
	default:
		return "unknown"
	}
}

// Scale returns the divisor that converts a raw value of this unit into
// seconds. An unknown unit falls back to the nanosecond scale; callers see
// that fallback through Normalized.UnitAssumed rather than here.
func (u Unit) Scale() float64 {
	switch u {
	case UnitSeconds:
		return 1
	case UnitMilliseconds:
		return 1e3
	case UnitMicroseconds:
		return 1e6
	case UnitNanoseconds:
		return 1e9
	default:
		return 1e9
	}
}

// ParseUnit maps a config-level unit name onto a Unit. Empty and "auto"
// both mean "run the detector".
func ParseUnit(s string) (Unit, bool) {
	switch s {
	case "", "auto":
		return UnitUnknown, true
	case "s", "seconds":
		return UnitSeconds, true
	case "ms", "milliseconds":
		return UnitMilliseconds, true
	case "us", "microseconds":
		return UnitMicroseconds, true
	case "ns", "nanoseconds":
		return UnitNanoseconds, true
	default:
		return UnitUnknown, false
	}
}

// DetectUnit classifies a numeric timestamp column by magnitude. It takes
// up to the first 100 non-missing (non-NaN) values, computes their median,
// and maps the decimal digit count of the truncated median onto a unit:
//
//	10-11 digits -> seconds
//	12-14 digits -> milliseconds
//	15-17 digits -> microseconds
//	18-20 digits -> nanoseconds
//	anything else -> unknown
//
// The thresholds are an empirical heuristic over epoch-style timestamps,
// not a guaranteed classifier; boundary magnitudes can misclassify, which
// is why NormalizeNumericAs exists as an explicit override. DetectUnit
// never fails: unmappable inputs degrade to UnitUnknown.
//
// "First 100" is taken in input order, so the result is deterministic for
// a given ordering but can differ across reorderings of the same values.
func DetectUnit(values []float64) Unit {
	sample := make([]float64, 0, detectSampleSize)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sample = append(sample, v)
		if len(sample) == detectSampleSize {
			break
		}
	}
	if len(sample) == 0 {
		return UnitUnknown
	}

	median, err := stats.Median(sample)
	if err != nil {
		return UnitUnknown
	}

	switch d := decimalDigits(median); {
	case d >= 10 && d <= 11:
		return UnitSeconds
	case d >= 12 && d <= 14:
		return UnitMilliseconds
	case d >= 15 && d <= 17:
		return UnitMicroseconds
	case d >= 18 && d <= 20:
		return UnitNanoseconds
	default:
		return UnitUnknown
	}
}

// decimalDigits counts the decimal digits of the truncated value, sign
// ignored. Zero has one digit.
func decimalDigits(v float64) int {
	t := math.Trunc(math.Abs(v))
	if math.IsInf(t, 0) {
		return 0
	}
	digits := 1
	for t >= 10 {
		t = math.Trunc(t / 10)
		digits++
	}
	return digits
}
