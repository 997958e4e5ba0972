package samplerate

import "fmt"

// ActiveInterval is a maximal contiguous run of samples whose flag column
// is true, annotated with the first label seen inside the run. Times are
// elapsed seconds; the interval holds no reference back into the source
// table.
type ActiveInterval struct {
	StartSeconds float64
	EndSeconds   float64
	Label        string
}

// Segment scans a boolean flag column aligned index-for-index with the
// elapsed series and emits the active intervals in start order. An
// interval opens at the elapsed time of a false-to-true transition and
// closes at the last true-flagged sample (not the first false one); a run
// still active at the end of the series closes at the final sample.
//
// The label of an interval is the first non-empty label value observed at
// a true-flagged index inside the run; an interval without one is emitted
// with an empty label, not dropped.
//
// flags and labels must match the elapsed length, otherwise
// ErrMisalignedAuxiliaryColumn. Inputs are not mutated.
func Segment(elapsed []float64, flags []bool, labels []string) ([]ActiveInterval, error) {
	if len(flags) != len(elapsed) {
		return nil, fmt.Errorf("%w: %d flags for %d samples", ErrMisalignedAuxiliaryColumn, len(flags), len(elapsed))
	}
	if len(labels) != len(elapsed) {
		return nil, fmt.Errorf("%w: %d labels for %d samples", ErrMisalignedAuxiliaryColumn, len(labels), len(elapsed))
	}

	var intervals []ActiveInterval
	active := false
	var current ActiveInterval

	for i, flag := range flags {
		switch {
		case flag && !active:
			active = true
			current = ActiveInterval{StartSeconds: elapsed[i], Label: labels[i]}

		case flag && active:
			if current.Label == "" {
				current.Label = labels[i]
			}

		case !flag && active:
			active = false
			current.EndSeconds = elapsed[i-1]
			intervals = append(intervals, current)
		}
	}
	if active {
		current.EndSeconds = elapsed[len(elapsed)-1]
		intervals = append(intervals, current)
	}

	return intervals, nil
}
