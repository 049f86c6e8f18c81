package tabular

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"harestats/domain/core"
	"harestats/domain/table"
	"harestats/internal"
	"harestats/ports"

	"github.com/xuri/excelize/v2"
)

var _ ports.TableReader = (*Reader)(nil)

// inferSampleSize caps how many rows feed column type inference.
const inferSampleSize = 200

// Reader loads CSV and Excel files into tables. The file type is chosen
// by extension; anything that is not .xlsx is treated as delimited text.
type Reader struct {
	coercer *TypeCoercer
	hints   map[core.FieldName]table.ValueType
	logger  *internal.Logger
}

// NewReader creates a reader with default coercion rules.
func NewReader() *Reader {
	return &Reader{
		coercer: NewTypeCoercer(DefaultCoercionConfig()),
		logger:  internal.DefaultLogger,
	}
}

// NewReaderWithHints creates a reader with explicitly declared column types.
// Hinted columns skip inference; unhinted columns are still inferred.
func NewReaderWithHints(hints map[core.FieldName]table.ValueType) *Reader {
	r := NewReader()
	r.hints = hints
	return r
}

// Read loads the file at path into an immutable table.
func (r *Reader) Read(ctx context.Context, path string) (table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return table.Table{}, core.NewDataAccessError(path, err)
	}

	var raw [][]string
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
		raw, err = r.readExcelRows(path)
	} else {
		raw, err = r.readCSVRows(path)
	}
	if err != nil {
		return table.Table{}, err
	}

	t, err := r.processRows(raw, filepath.Base(path))
	if err != nil {
		return table.Table{}, err
	}

	r.logger.Info("loaded %s: %d rows, %d fields", filepath.Base(path), t.Len(), t.Schema().Len())
	return t, nil
}

func (r *Reader) readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewDataAccessError(path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are rejected in processRows with row context

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewParseError("malformed csv", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func (r *Reader) readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, core.NewParseError("cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewParseError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, core.NewParseError("cannot read sheet "+sheets[0], err)
	}
	return rows, nil
}

// processRows turns a header row plus data rows into a typed table.
func (r *Reader) processRows(raw [][]string, origin string) (table.Table, error) {
	if len(raw) < 2 {
		return table.Table{}, core.NewParseError("need a header row and at least one data row", nil)
	}

	header := raw[0]
	data := raw[1:]
	for i, row := range data {
		// Excel readers drop trailing empty cells; pad those, reject wider rows.
		if len(row) > len(header) {
			return table.Table{}, core.NewParseError("row "+strconv.Itoa(i+2)+" has more cells than the header", nil)
		}
	}

	types := r.columnTypes(header, data)

	fields := make([]table.Field, len(header))
	for i, name := range header {
		fields[i] = table.Field{Name: core.FieldName(strings.TrimSpace(name)), Type: types[i]}
	}
	schema := table.NewSchema(fields)

	rows := make([][]table.Value, len(data))
	for ri, row := range data {
		cells := make([]table.Value, len(header))
		for ci := range header {
			if ci < len(row) {
				cells[ci] = r.coercer.Coerce(row[ci], types[ci])
			} else {
				cells[ci] = table.NewMissingValue()
			}
		}
		rows[ri] = cells
	}

	return table.New(schema, rows, origin), nil
}

func (r *Reader) columnTypes(header []string, data [][]string) []table.ValueType {
	types := make([]table.ValueType, len(header))
	for ci, name := range header {
		if hinted, ok := r.hints[core.FieldName(strings.TrimSpace(name))]; ok {
			types[ci] = hinted
			continue
		}
		sample := make([]string, 0, inferSampleSize)
		for ri := 0; ri < len(data) && ri < inferSampleSize; ri++ {
			if ci < len(data[ri]) {
				sample = append(sample, data[ri][ci])
			}
		}
		types[ci] = r.coercer.InferType(sample)
	}
	return types
}
