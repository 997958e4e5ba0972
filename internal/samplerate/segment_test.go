package samplerate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment_TwoIntervals(t *testing.T) {
	elapsed := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	flags := []bool{false, false, true, true, true, false, false, true, false}
	labels := make([]string, len(elapsed))

	intervals, err := Segment(elapsed, flags, labels)
	require.NoError(t, err)

	require.Len(t, intervals, 2)
	assert.Equal(t, 2.0, intervals[0].StartSeconds)
	assert.Equal(t, 4.0, intervals[0].EndSeconds)
	assert.Equal(t, 7.0, intervals[1].StartSeconds)
	assert.Equal(t, 7.0, intervals[1].EndSeconds)
}

func TestSegment_TrailingActiveRunClosesAtLastSample(t *testing.T) {
	elapsed := []float64{0, 1, 2, 3}
	flags := []bool{false, true, true, true}
	labels := []string{"", "", "", ""}

	intervals, err := Segment(elapsed, flags, labels)
	require.NoError(t, err)

	require.Len(t, intervals, 1)
	assert.Equal(t, 1.0, intervals[0].StartSeconds)
	assert.Equal(t, 3.0, intervals[0].EndSeconds)
}

func TestSegment_LabelIsFirstNonEmptyInsideRun(t *testing.T) {
	elapsed := []float64{0, 1, 2, 3, 4, 5}
	flags := []bool{true, true, true, false, true, true}
	labels := []string{"", "tower", "bridge", "ignored", "", "house"}

	intervals, err := Segment(elapsed, flags, labels)
	require.NoError(t, err)

	require.Len(t, intervals, 2)
	assert.Equal(t, "tower", intervals[0].Label)
	assert.Equal(t, "house", intervals[1].Label)
}

func TestSegment_UnlabeledIntervalStillEmitted(t *testing.T) {
	elapsed := []float64{0, 1, 2}
	flags := []bool{false, true, false}
	labels := []string{"outside", "", "outside"}

	intervals, err := Segment(elapsed, flags, labels)
	require.NoError(t, err)

	require.Len(t, intervals, 1)
	assert.Equal(t, "", intervals[0].Label)
}

func TestSegment_MisalignedColumns(t *testing.T) {
	elapsed := []float64{0, 1, 2}

	_, err := Segment(elapsed, []bool{true, false}, []string{"", "", ""})
	assert.ErrorIs(t, err, ErrMisalignedAuxiliaryColumn)

	_, err = Segment(elapsed, []bool{true, false, true}, []string{"", ""})
	assert.ErrorIs(t, err, ErrMisalignedAuxiliaryColumn)
}

func TestSegment_NoActiveSamples(t *testing.T) {
	elapsed := []float64{0, 1, 2}
	flags := []bool{false, false, false}
	labels := []string{"", "", ""}

	intervals, err := Segment(elapsed, flags, labels)
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestSegment_EmptySeries(t *testing.T) {
	intervals, err := Segment(nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, intervals)
}
