// Package analysis runs the sampling-rate engine over one loaded dataset.
// It owns branch selection (numeric vs textual time column), the
// unit-assumption warning, and the rule that a segmentation failure
// degrades the result instead of discarding the statistics.
package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bricklab/ratelens/internal/dataset"
	"github.com/bricklab/ratelens/internal/samplerate"
)

// Request names the columns of one dataset to analyze. FlagColumn and
// LabelColumn are optional and only meaningful together; Unit overrides
// timestamp-unit detection when set to anything but UnitUnknown.
type Request struct {
	TimeColumn  string
	FlagColumn  string
	LabelColumn string
	Unit        samplerate.Unit
}

// Result is the immutable outcome of analyzing one dataset.
type Result struct {
	Dataset   string
	Norm      *samplerate.Normalized
	Stats     *samplerate.Stats
	Intervals []samplerate.ActiveInterval
	// SegmentationSkipped records a non-fatal segmentation failure
	// (misaligned auxiliary columns); statistics are still valid.
	SegmentationSkipped bool
}

// Analyze normalizes the requested time column, computes sampling-rate
// statistics, and, when flag and label columns are requested, segments the
// active intervals. Errors are scoped to this dataset: the caller decides
// whether sibling datasets continue.
func Analyze(tbl *dataset.Table, req Request, logger *zap.Logger) (*Result, error) {
	timeCol, err := tbl.Column(req.TimeColumn)
	if err != nil {
		return nil, err
	}

	norm, err := normalizeColumn(timeCol, req.Unit)
	if err != nil {
		return nil, fmt.Errorf("normalizing %q: %w", req.TimeColumn, err)
	}
	if norm.UnitAssumed {
		logger.Warn("Timestamp unit could not be inferred, assuming nanoseconds",
			zap.String("dataset", tbl.Name),
			zap.String("column", req.TimeColumn),
		)
	}

	stats, err := samplerate.ComputeStats(norm.Elapsed)
	if err != nil {
		return nil, fmt.Errorf("computing statistics for %q: %w", tbl.Name, err)
	}
	if stats.DegenerateIntervals > 0 {
		logger.Warn("Degenerate inter-sample intervals excluded from rate statistics",
			zap.String("dataset", tbl.Name),
			zap.Int("degenerate_intervals", stats.DegenerateIntervals),
			zap.Int("sample_count", stats.SampleCount),
		)
	}

	result := &Result{
		Dataset: tbl.Name,
		Norm:    norm,
		Stats:   stats,
	}

	if req.FlagColumn != "" && req.LabelColumn != "" {
		intervals, segErr := segmentColumns(tbl, req, norm.Elapsed)
		if segErr != nil {
			// Fatal to segmentation only: statistics stand.
			logger.Warn("Segmentation failed, reporting statistics only",
				zap.String("dataset", tbl.Name),
				zap.Error(segErr),
			)
			result.SegmentationSkipped = true
		} else {
			result.Intervals = intervals
		}
	}

	return result, nil
}

// normalizeColumn picks the normalization branch from the column kind. A
// numeric column goes through unit detection (or the explicit override); a
// text column goes through datetime parsing.
func normalizeColumn(col *dataset.Column, unit samplerate.Unit) (*samplerate.Normalized, error) {
	switch col.Kind {
	case dataset.KindNumeric:
		if unit != samplerate.UnitUnknown {
			return samplerate.NormalizeNumericAs(col.Floats, unit)
		}
		return samplerate.NormalizeNumeric(col.Floats)
	default:
		return samplerate.NormalizeText(col.Strings)
	}
}

func segmentColumns(tbl *dataset.Table, req Request, elapsed []float64) ([]samplerate.ActiveInterval, error) {
	flagCol, err := tbl.Column(req.FlagColumn)
	if err != nil {
		return nil, err
	}
	flags, err := flagCol.BoolValues()
	if err != nil {
		return nil, err
	}
	labelCol, err := tbl.Column(req.LabelColumn)
	if err != nil {
		return nil, err
	}
	return samplerate.Segment(elapsed, flags, labelCol.Strings)
}
