// Package ioreader reads CSV streams into the (arm, value) shape that
// cs and twosample constructors consume, validating the header against
// a declared schema and counting missing/invalid values the way
// anytime's CSV loader does, rather than failing the whole run on the
// first bad row.
package ioreader

import "anytime/errs"

// Schema declares which CSV columns a reader requires, which are
// parsed as numeric, and which are optional. Required columns must be
// present in numeric or optional (or both); NewSchema rejects a schema
// that requires a column it never classifies.
type Schema struct {
	RequiredColumns map[string]bool
	NumericColumns  map[string]bool
	OptionalColumns map[string]bool
}

// NewSchema builds a Schema from column name slices and validates that
// every required column is either numeric or optional.
func NewSchema(required, numeric, optional []string) (Schema, error) {
	s := Schema{
		RequiredColumns: toSet(required),
		NumericColumns:  toSet(numeric),
		OptionalColumns: toSet(optional),
	}
	for col := range s.RequiredColumns {
		if !s.NumericColumns[col] && !s.OptionalColumns[col] {
			return Schema{}, errs.NewConfigError("Schema", "required_columns",
				"required column %q must also be numeric or optional", col)
		}
	}
	return s, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// OneSampleSchema requires a single numeric "value" column.
func OneSampleSchema() Schema {
	s, err := NewSchema([]string{"value"}, []string{"value"}, nil)
	if err != nil {
		panic("ioreader: OneSampleSchema: " + err.Error())
	}
	return s
}

// ABTestSchema requires an "arm" column and a numeric "value" column.
func ABTestSchema() Schema {
	s, err := NewSchema([]string{"arm", "value"}, []string{"value"}, []string{"arm"})
	if err != nil {
		panic("ioreader: ABTestSchema: " + err.Error())
	}
	return s
}

// validateHeader checks that every required column is present in header.
func (s Schema) validateHeader(header []string) error {
	present := toSet(header)
	for col := range s.RequiredColumns {
		if !present[col] {
			return errs.NewConfigError("Reader", "header", "missing required column %q", col)
		}
	}
	return nil
}
