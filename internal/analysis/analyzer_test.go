package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bricklab/ratelens/internal/dataset"
	"github.com/bricklab/ratelens/internal/samplerate"
)

func loadTable(t *testing.T, name, content string) *dataset.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	tbl, err := dataset.LoadCSV(path, name)
	require.NoError(t, err)
	return tbl
}

func TestAnalyze_NumericTimeColumn(t *testing.T) {
	tbl := loadTable(t, "eye", ""+
		"capture_time\n"+
		"1700000000000\n"+
		"1700000000010\n"+
		"1700000000020\n"+
		"1700000000030\n")

	res, err := Analyze(tbl, Request{TimeColumn: "capture_time"}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, samplerate.UnitMilliseconds, res.Norm.Unit)
	assert.Equal(t, 4, res.Stats.SampleCount)
	assert.InDelta(t, 100.0, res.Stats.AverageHz, 1e-6)
	assert.Empty(t, res.Intervals)
}

func TestAnalyze_TextTimeColumn(t *testing.T) {
	tbl := loadTable(t, "body", ""+
		"timestamp\n"+
		"2025-07-31T10:00:00.00Z\n"+
		"2025-07-31T10:00:00.02Z\n"+
		"2025-07-31T10:00:00.04Z\n")

	res, err := Analyze(tbl, Request{TimeColumn: "timestamp"}, zap.NewNop())
	require.NoError(t, err)

	assert.InDelta(t, 50.0, res.Stats.AverageHz, 1e-6)
	assert.InDelta(t, 0.04, res.Stats.DurationSeconds, 1e-9)
}

func TestAnalyze_UnparseableTextColumn(t *testing.T) {
	tbl := loadTable(t, "bad", "timestamp\nnot-a-time\nalso-bad\n")

	_, err := Analyze(tbl, Request{TimeColumn: "timestamp"}, zap.NewNop())
	assert.ErrorIs(t, err, samplerate.ErrUnparseableTimeFormat)
}

func TestAnalyze_SingleSampleIsInsufficient(t *testing.T) {
	tbl := loadTable(t, "tiny", "capture_time\n1700000000000\n")

	_, err := Analyze(tbl, Request{TimeColumn: "capture_time"}, zap.NewNop())
	assert.ErrorIs(t, err, samplerate.ErrInsufficientSamples)
}

func TestAnalyze_MissingTimeColumn(t *testing.T) {
	tbl := loadTable(t, "x", "a\n1\n2\n")

	_, err := Analyze(tbl, Request{TimeColumn: "capture_time"}, zap.NewNop())
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestAnalyze_WithSegmentation(t *testing.T) {
	tbl := loadTable(t, "eye", ""+
		"capture_time,building_active,building_id\n"+
		"1700000000000,false,\n"+
		"1700000000010,true,B-01\n"+
		"1700000000020,true,B-01\n"+
		"1700000000030,false,\n"+
		"1700000000040,true,B-02\n")

	res, err := Analyze(tbl, Request{
		TimeColumn:  "capture_time",
		FlagColumn:  "building_active",
		LabelColumn: "building_id",
	}, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, res.Intervals, 2)
	assert.Equal(t, "B-01", res.Intervals[0].Label)
	assert.InDelta(t, 0.01, res.Intervals[0].StartSeconds, 1e-9)
	assert.InDelta(t, 0.02, res.Intervals[0].EndSeconds, 1e-9)
	assert.Equal(t, "B-02", res.Intervals[1].Label)
	assert.InDelta(t, 0.04, res.Intervals[1].EndSeconds, 1e-9)
}

func TestAnalyze_SegmentationFailureKeepsStats(t *testing.T) {
	// building_active refers to a missing column: segmentation degrades,
	// statistics survive.
	tbl := loadTable(t, "eye", ""+
		"capture_time,building_id\n"+
		"1700000000000,B-01\n"+
		"1700000000010,B-01\n")

	res, err := Analyze(tbl, Request{
		TimeColumn:  "capture_time",
		FlagColumn:  "building_active",
		LabelColumn: "building_id",
	}, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, res.SegmentationSkipped)
	assert.NotNil(t, res.Stats)
	assert.Empty(t, res.Intervals)
}

func TestAnalyze_UnitOverride(t *testing.T) {
	// Counter-style values the detector cannot classify; the request pins
	// them to seconds.
	tbl := loadTable(t, "sim", "t\n10\n11\n12\n")

	res, err := Analyze(tbl, Request{TimeColumn: "t", Unit: samplerate.UnitSeconds}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, samplerate.UnitSeconds, res.Norm.Unit)
	assert.False(t, res.Norm.UnitAssumed)
	assert.InDelta(t, 1.0, res.Stats.AverageHz, 1e-9)
}
