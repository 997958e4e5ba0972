package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV_KindInference(t *testing.T) {
	path := writeCSV(t, ""+
		"capture_time,gaze_x,building_active,building_id\n"+
		"1700000000000,0.12,true,B-01\n"+
		"1700000000010,0.15,true,B-01\n"+
		"1700000000020,,false,\n")

	tbl, err := LoadCSV(path, "eye")
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Rows)
	assert.Equal(t, []string{"capture_time", "gaze_x", "building_active", "building_id"}, tbl.ColumnNames())

	timeCol, err := tbl.Column("capture_time")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, timeCol.Kind)
	assert.Equal(t, 1.7e12, timeCol.Floats[0])

	gaze, err := tbl.Column("gaze_x")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, gaze.Kind)
	assert.True(t, math.IsNaN(gaze.Floats[2]), "missing numeric cell should be NaN")

	active, err := tbl.Column("building_active")
	require.NoError(t, err)
	assert.Equal(t, KindBool, active.Kind)
	assert.Equal(t, []bool{true, true, false}, active.Bools)

	id, err := tbl.Column("building_id")
	require.NoError(t, err)
	assert.Equal(t, KindText, id.Kind)
	assert.Equal(t, []string{"B-01", "B-01", ""}, id.Strings)
}

func TestLoadCSV_TextualTimeColumn(t *testing.T) {
	path := writeCSV(t, ""+
		"timestamp,value\n"+
		"2025-07-31T10:00:00Z,1\n"+
		"2025-07-31T10:00:01Z,2\n")

	tbl, err := LoadCSV(path, "body")
	require.NoError(t, err)

	col, err := tbl.Column("timestamp")
	require.NoError(t, err)
	assert.Equal(t, KindText, col.Kind)
}

func TestLoadCSV_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), "x")
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := LoadCSV(writeCSV(t, "a,b\n"), "x")
		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("duplicate column", func(t *testing.T) {
		_, err := LoadCSV(writeCSV(t, "a,a\n1,2\n"), "x")
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})

	t.Run("ragged row", func(t *testing.T) {
		_, err := LoadCSV(writeCSV(t, "a,b\n1\n"), "x")
		assert.Error(t, err)
	})
}

func TestColumn_NotFoundListsAvailable(t *testing.T) {
	tbl, err := LoadCSV(writeCSV(t, "a,b\n1,2\n"), "x")
	require.NoError(t, err)

	_, err = tbl.Column("c")
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.Contains(t, err.Error(), "a, b")
}

func TestBoolValues_NumericCoercion(t *testing.T) {
	tbl, err := LoadCSV(writeCSV(t, "flag\n0\n1\n1\n"), "x")
	require.NoError(t, err)

	col, err := tbl.Column("flag")
	require.NoError(t, err)
	require.Equal(t, KindNumeric, col.Kind)

	flags, err := col.BoolValues()
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, flags)
}

func TestBoolValues_RejectsNonFlagNumeric(t *testing.T) {
	tbl, err := LoadCSV(writeCSV(t, "flag\n0\n2\n"), "x")
	require.NoError(t, err)

	col, err := tbl.Column("flag")
	require.NoError(t, err)

	_, err = col.BoolValues()
	assert.ErrorIs(t, err, ErrNotBoolean)
}
