// Package transform provides the pure table operations of the pipeline:
// row filtering, derived columns, and categorical recoding. Every
// operation returns a new table and appends one lineage step; the input
// table is never mutated.
package transform

import (
	"harestats/domain/core"
	"harestats/domain/table"
)

// Predicate decides whether a record is retained by Filter.
type Predicate func(table.Record) bool

// DeriveFunc computes a new cell from an existing record.
type DeriveFunc func(table.Record) (table.Value, error)

// Filter retains rows where pred holds, preserving relative order.
// The name labels the step in the table lineage.
func Filter(t table.Table, name string, pred Predicate) table.Table {
	var rows [][]table.Value
	for i := 0; i < t.Len(); i++ {
		if pred(t.Row(i)) {
			rows = append(rows, t.RowCells(i))
		}
	}
	return table.Next(t, table.Step{Op: "filter", Note: name}, t.Schema(), rows)
}

// Derive appends a column computed per-row by fn. A row where fn fails
// gets a missing cell; the failure count is recorded on the lineage step.
// Callers that will group or filter on the derived field should check
// Failures on the new table's last lineage step.
func Derive(t table.Table, field core.FieldName, typ table.ValueType, fn DeriveFunc) table.Table {
	schema := t.Schema().WithField(table.Field{Name: field, Type: typ})

	failures := 0
	rows := make([][]table.Value, t.Len())
	for i := 0; i < t.Len(); i++ {
		v, err := fn(t.Row(i))
		if err != nil {
			v = table.NewMissingValue()
			failures++
		}
		rows[i] = append(t.RowCells(i), v)
	}
	return table.Next(t, table.Step{Op: "derive", Field: field, Failures: failures}, schema, rows)
}

// DeriveStrict is Derive for fields later required for grouping or
// filtering: the first per-row failure aborts with ErrDerivation instead
// of degrading to missingness.
func DeriveStrict(t table.Table, field core.FieldName, typ table.ValueType, fn DeriveFunc) (table.Table, error) {
	schema := t.Schema().WithField(table.Field{Name: field, Type: typ})

	rows := make([][]table.Value, t.Len())
	for i := 0; i < t.Len(); i++ {
		v, err := fn(t.Row(i))
		if err != nil {
			return table.Table{}, core.NewDerivationError(string(field), i, err)
		}
		rows[i] = append(t.RowCells(i), v)
	}
	return table.Next(t, table.Step{Op: "derive", Field: field}, schema, rows), nil
}

// Recode replaces the categorical values of field through mapping.
// Unmapped codes become def, or keep their raw code when def is empty;
// missing cells stay missing. The recoded column is string typed
// regardless of its previous type.
func Recode(t table.Table, field core.FieldName, mapping map[string]string, def string) (table.Table, error) {
	idx, ok := t.Schema().Index(field)
	if !ok {
		return table.Table{}, core.NewFieldNotFoundError(string(field))
	}

	fields := t.Schema().Fields()
	fields[idx].Type = table.ValueTypeString
	schema := table.NewSchema(fields)

	rows := make([][]table.Value, t.Len())
	for i := 0; i < t.Len(); i++ {
		cells := t.RowCells(i)
		cells[idx] = recodeCell(cells[idx], mapping, def)
		rows[i] = cells
	}
	return table.Next(t, table.Step{Op: "recode", Field: field}, schema, rows), nil
}

func recodeCell(v table.Value, mapping map[string]string, def string) table.Value {
	if v.IsMissing {
		return v
	}
	raw, ok := v.Text()
	if !ok {
		raw = v.String()
	}
	if label, found := mapping[raw]; found {
		return table.NewStringValue(label)
	}
	if def == "" {
		return table.NewStringValue(raw)
	}
	return table.NewStringValue(def)
}

// DeriveYear appends yearField holding the calendar year of dateField.
// Rows with a missing or unparsed date get a missing year.
func DeriveYear(t table.Table, dateField, yearField core.FieldName) table.Table {
	return Derive(t, yearField, table.ValueTypeNumeric, func(r table.Record) (table.Value, error) {
		ts, ok := r.Get(dateField).Timestamp()
		if !ok {
			return table.NewMissingValue(), nil
		}
		return table.NewNumericValue(float64(ts.Year())), nil
	})
}

// DeriveMonth appends monthField holding the calendar month (1-12) of dateField.
func DeriveMonth(t table.Table, dateField, monthField core.FieldName) table.Table {
	return Derive(t, monthField, table.ValueTypeNumeric, func(r table.Record) (table.Value, error) {
		ts, ok := r.Get(dateField).Timestamp()
		if !ok {
			return table.NewMissingValue(), nil
		}
		return table.NewNumericValue(float64(ts.Month())), nil
	})
}
