package ioreader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"anytime/errs"
)

// Row is one parsed CSV record: the raw arm label (empty for one-sample
// input) and the parsed numeric value.
type Row struct {
	Arm    string
	Value  float64
	Number int64 // 1-based data row number, header excluded
}

// Summary reports how many rows a Reader has produced and how many
// values it had to skip, mirroring the counters anytime's CSV loader
// surfaces to operators after a run.
type Summary struct {
	RowCount      int64
	MissingValues int64
	InvalidValues int64
}

// Reader streams Rows out of a CSV file, validating the header against
// a Schema and counting missing (blank) or invalid (unparseable)
// values in the declared numeric column instead of failing the run.
type Reader struct {
	schema      Schema
	armColumn   string // empty for one-sample input
	valueColumn string

	file   *os.File
	csv    *csv.Reader
	header []string
	index  map[string]int

	rowNumber int64
	summary   Summary
}

// NewOneSampleReader opens path as a one-sample CSV stream, reading
// numeric values from valueColumn (defaulting to "value").
func NewOneSampleReader(path, valueColumn string) (*Reader, error) {
	if valueColumn == "" {
		valueColumn = "value"
	}
	schema, err := NewSchema([]string{valueColumn}, []string{valueColumn}, nil)
	if err != nil {
		return nil, err
	}
	return newReader(path, schema, "", valueColumn)
}

// NewABTestReader opens path as a two-arm CSV stream, reading arm
// labels from armColumn (defaulting to "arm") and numeric values from
// valueColumn (defaulting to "value").
func NewABTestReader(path, armColumn, valueColumn string) (*Reader, error) {
	if armColumn == "" {
		armColumn = "arm"
	}
	if valueColumn == "" {
		valueColumn = "value"
	}
	schema, err := NewSchema([]string{armColumn, valueColumn}, []string{valueColumn}, []string{armColumn})
	if err != nil {
		return nil, err
	}
	return newReader(path, schema, armColumn, valueColumn)
}

func newReader(path string, schema Schema, armColumn, valueColumn string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NewConfigError("Reader", "input", "file not found: %s", path)
		}
		return nil, fmt.Errorf("ioreader: opening %s: %w", path, err)
	}

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ioreader: reading header of %s: %w", path, err)
	}
	if err := schema.validateHeader(header); err != nil {
		f.Close()
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	return &Reader{
		schema:      schema,
		armColumn:   armColumn,
		valueColumn: valueColumn,
		file:        f,
		csv:         cr,
		header:      header,
		index:       index,
	}, nil
}

// Next returns the next parsed Row, or io.EOF once the file is
// exhausted. A row whose value column is blank or unparseable is
// skipped (and counted in Summary) rather than returned or treated as
// an error.
func (r *Reader) Next() (Row, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return Row{}, io.EOF
		}
		if err != nil {
			return Row{}, fmt.Errorf("ioreader: reading row %d: %w", r.rowNumber+1, err)
		}
		r.rowNumber++
		r.summary.RowCount++

		value, ok := r.readNumeric(record, r.valueColumn)
		if !ok {
			continue
		}

		row := Row{Value: value, Number: r.rowNumber}
		if r.armColumn != "" {
			row.Arm = r.field(record, r.armColumn)
		}
		return row, nil
	}
}

// readNumeric parses the named column of record, counting a blank
// field as missing and an unparseable one as invalid.
func (r *Reader) readNumeric(record []string, column string) (float64, bool) {
	raw := r.field(record, column)
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		r.summary.MissingValues++
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		r.summary.InvalidValues++
		return 0, false
	}
	return value, true
}

func (r *Reader) field(record []string, column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// Summary returns the running row/missing/invalid counters.
func (r *Reader) Summary() Summary { return r.summary }

// Close releases the underlying file.
func (r *Reader) Close() error { return r.file.Close() }
