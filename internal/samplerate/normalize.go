package samplerate

import (
	"fmt"
	"time"
)

// Normalized is a time column rebased to elapsed seconds since its first
// sample. Elapsed[0] is always exactly 0 and the input column is never
// mutated.
type Normalized struct {
	Elapsed []float64
	Unit    Unit
	// UnitAssumed is set when the unit detector could not classify the
	// column and the nanosecond scale was assumed. Callers should surface
	// this as a warning; it is deliberately not an error.
	UnitAssumed bool
}

// timeLayouts are the datetime formats the textual branch accepts, tried
// in order. Most specific first so fractional seconds are not dropped.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// NormalizeNumeric converts a raw numeric timestamp column into elapsed
// seconds. The unit is inferred with DetectUnit; when inference fails the
// nanosecond scale is assumed and UnitAssumed is set on the result.
func NormalizeNumeric(values []float64) (*Normalized, error) {
	unit := DetectUnit(values)
	norm, err := NormalizeNumericAs(values, unit)
	if err != nil {
		return nil, err
	}
	norm.UnitAssumed = unit == UnitUnknown && len(values) > 0
	return norm, nil
}

// NormalizeNumericAs converts a raw numeric timestamp column using an
// explicitly chosen unit, bypassing detection. This is the override for
// columns whose magnitude sits on a detection boundary.
func NormalizeNumericAs(values []float64, unit Unit) (*Normalized, error) {
	elapsed := make([]float64, len(values))
	if len(values) == 0 {
		return &Normalized{Elapsed: elapsed, Unit: unit}, nil
	}

	first := values[0]
	scale := unit.Scale()
	for i, v := range values {
		elapsed[i] = (v - first) / scale
	}
	return &Normalized{Elapsed: elapsed, Unit: unit}, nil
}

// NormalizeText converts a textual datetime column into elapsed seconds
// since the first instant. Parsing is permissive across timeLayouts, but a
// single unparseable value fails the whole column: partial normalization
// would silently misalign the series against its auxiliary columns.
func NormalizeText(values []string) (*Normalized, error) {
	elapsed := make([]float64, len(values))
	if len(values) == 0 {
		return &Normalized{Elapsed: elapsed, Unit: UnitUnknown}, nil
	}

	var first time.Time
	layout := ""
	for i, raw := range values {
		t, matched, err := parseInstant(raw, layout)
		if err != nil {
			return nil, fmt.Errorf("%w: value %q at row %d", ErrUnparseableTimeFormat, raw, i)
		}
		layout = matched
		if i == 0 {
			first = t
		}
		elapsed[i] = t.Sub(first).Seconds()
	}
	return &Normalized{Elapsed: elapsed, Unit: UnitSeconds}, nil
}

// parseInstant tries the hinted layout first (columns are almost always
// uniform), then falls back to the full layout list.
func parseInstant(raw, hint string) (time.Time, string, error) {
	if hint != "" {
		if t, err := time.Parse(hint, raw); err == nil {
			return t, hint, nil
		}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("no layout matched %q", raw)
}
