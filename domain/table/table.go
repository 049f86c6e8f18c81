package table

import (
	"time"

	"harestats/domain/core"
)

// Field describes a single column: its name and declared-or-inferred type.
type Field struct {
	Name core.FieldName `json:"name"`
	Type ValueType      `json:"type"`
}

// Schema is an ordered set of fields shared by every record in a table.
type Schema struct {
	fields []Field
	index  map[core.FieldName]int
}

// NewSchema builds a schema from an ordered field list.
func NewSchema(fields []Field) Schema {
	idx := make(map[core.FieldName]int, len(fields))
	for i, f := range fields {
		idx[f.Name] = i
	}
	return Schema{fields: fields, index: idx}
}

// Fields returns a copy of the ordered field list.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.fields) }

// Index returns the column position of a field.
func (s Schema) Index(name core.FieldName) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Has reports whether the schema contains a field.
func (s Schema) Has(name core.FieldName) bool {
	_, ok := s.index[name]
	return ok
}

// WithField returns a new schema with one field appended.
func (s Schema) WithField(f Field) Schema {
	fields := make([]Field, 0, len(s.fields)+1)
	fields = append(fields, s.fields...)
	fields = append(fields, f)
	return NewSchema(fields)
}

// Record is a view over one row of a table. Cell access by field name
// returns an explicit missing value for unknown fields.
type Record struct {
	schema *Schema
	cells  []Value
}

// Get returns the cell for a field, missing if the field is not in the schema.
func (r Record) Get(name core.FieldName) Value {
	i, ok := r.schema.Index(name)
	if !ok || i >= len(r.cells) {
		return NewMissingValue()
	}
	return r.cells[i]
}

// Cells returns a copy of the raw cell slice in schema order.
func (r Record) Cells() []Value {
	out := make([]Value, len(r.cells))
	copy(out, r.cells)
	return out
}

// Step records one transformation in a table's lineage.
type Step struct {
	Op       string         `json:"op"`
	Field    core.FieldName `json:"field,omitempty"`
	Note     string         `json:"note,omitempty"` // origin file, filter label
	RowsIn   int            `json:"rows_in"`
	RowsOut  int            `json:"rows_out"`
	Failures int            `json:"failures"` // per-row derivations recovered as missing
	At       time.Time      `json:"at"`
}

// Table is an immutable ordered sequence of records sharing a schema.
// Every transformation produces a new table with a fresh ID and the parent
// lineage extended by one step, so any result can be traced back to the load.
type Table struct {
	id      core.TableID
	schema  Schema
	rows    [][]Value
	lineage []Step
}

// New creates a loaded table with an origin step.
func New(schema Schema, rows [][]Value, origin string) Table {
	return Table{
		id:     core.NewID(),
		schema: schema,
		rows:   rows,
		lineage: []Step{{
			Op:      "load",
			Note:    origin,
			RowsIn:  len(rows),
			RowsOut: len(rows),
			At:      time.Now(),
		}},
	}
}

// Next creates the successor of parent after one transformation step.
func Next(parent Table, step Step, schema Schema, rows [][]Value) Table {
	step.RowsIn = parent.Len()
	step.RowsOut = len(rows)
	step.At = time.Now()

	lineage := make([]Step, 0, len(parent.lineage)+1)
	lineage = append(lineage, parent.lineage...)
	lineage = append(lineage, step)

	return Table{
		id:      core.NewID(),
		schema:  schema,
		rows:    rows,
		lineage: lineage,
	}
}

// ID returns the table's identifier.
func (t Table) ID() core.TableID { return t.id }

// Schema returns the table's schema.
func (t Table) Schema() Schema { return t.schema }

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Row returns a record view over row i.
func (t Table) Row(i int) Record {
	return Record{schema: &t.schema, cells: t.rows[i]}
}

// RowCells returns the raw cells of row i in schema order.
func (t Table) RowCells(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Lineage returns the transformation history, load step first.
func (t Table) Lineage() []Step {
	out := make([]Step, len(t.lineage))
	copy(out, t.lineage)
	return out
}

// Column returns the cells of one field aligned with row order.
func (t Table) Column(name core.FieldName) ([]Value, error) {
	i, ok := t.schema.Index(name)
	if !ok {
		return nil, core.NewFieldNotFoundError(string(name))
	}
	out := make([]Value, len(t.rows))
	for r, cells := range t.rows {
		out[r] = cells[i]
	}
	return out, nil
}
