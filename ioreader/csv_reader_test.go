package ioreader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewOneSampleReader_ReadsValues(t *testing.T) {
	path := writeCSV(t, "one_sample.csv", "value\n1.0\n2.0\n3.0\n")
	r, err := NewOneSampleReader(path, "")
	require.NoError(t, err)
	defer r.Close()

	var values []float64
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		values = append(values, row.Value)
	}
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, values)
	assert.Equal(t, int64(3), r.Summary().RowCount)
}

func TestNewOneSampleReader_MissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, "bad.csv", "amount\n1.0\n")
	_, err := NewOneSampleReader(path, "value")
	require.Error(t, err)
}

func TestNewOneSampleReader_MissingFile(t *testing.T) {
	_, err := NewOneSampleReader(filepath.Join(t.TempDir(), "nope.csv"), "value")
	require.Error(t, err)
}

func TestReader_SkipsMissingAndInvalidValues(t *testing.T) {
	path := writeCSV(t, "dirty.csv", "value\n1.0\n\nnot-a-number\n4.0\n")
	r, err := NewOneSampleReader(path, "")
	require.NoError(t, err)
	defer r.Close()

	var values []float64
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		values = append(values, row.Value)
	}
	assert.Equal(t, []float64{1.0, 4.0}, values)

	summary := r.Summary()
	assert.Equal(t, int64(4), summary.RowCount)
	assert.Equal(t, int64(1), summary.MissingValues)
	assert.Equal(t, int64(1), summary.InvalidValues)
}

func TestNewABTestReader_ReadsArmAndValue(t *testing.T) {
	path := writeCSV(t, "ab.csv", "arm,value\ncontrol,1.0\ntreatment,2.0\n")
	r, err := NewABTestReader(path, "", "")
	require.NoError(t, err)
	defer r.Close()

	row1, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "control", row1.Arm)
	assert.Equal(t, 1.0, row1.Value)

	row2, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "treatment", row2.Arm)
	assert.Equal(t, 2.0, row2.Value)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNewABTestReader_CustomColumnNames(t *testing.T) {
	path := writeCSV(t, "ab_custom.csv", "group,metric\nA,0.5\nB,0.8\n")
	r, err := NewABTestReader(path, "group", "metric")
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "A", row.Arm)
	assert.Equal(t, 0.5, row.Value)
}

func TestNewABTestReader_MissingArmColumn(t *testing.T) {
	path := writeCSV(t, "no_arm.csv", "value\n1.0\n")
	_, err := NewABTestReader(path, "", "")
	require.Error(t, err)
}

func TestNewSchema_RejectsUnclassifiedRequiredColumn(t *testing.T) {
	_, err := NewSchema([]string{"missing"}, nil, nil)
	require.Error(t, err)
}

func TestOneSampleSchema_RequiresValue(t *testing.T) {
	s := OneSampleSchema()
	assert.True(t, s.RequiredColumns["value"])
	assert.True(t, s.NumericColumns["value"])
}

func TestABTestSchema_RequiresArmAndValue(t *testing.T) {
	s := ABTestSchema()
	assert.True(t, s.RequiredColumns["arm"])
	assert.True(t, s.RequiredColumns["value"])
	assert.True(t, s.OptionalColumns["arm"])
}
