package tabular

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harestats/domain/core"
	"harestats/domain/table"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const captureCSV = `date,grid,sex,age,weight,hindft
11/26/1998,bonrip,m,j,1000,140
11/26/1998,bonrip,f,j,,132
12/3/1999,bonmat,f,a,1340,
12/3/1999,bonbta,?,j,920,128
`

func TestReadCSV(t *testing.T) {
	path := writeFixture(t, "captures.csv", captureCSV)

	tbl, err := NewReader().Read(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, 6, tbl.Schema().Len())

	// Empty numeric cells are missing, never zero.
	assert.True(t, tbl.Row(1).Get("weight").IsMissing)
	assert.True(t, tbl.Row(2).Get("hindft").IsMissing)

	w, ok := tbl.Row(0).Get("weight").Numeric()
	require.True(t, ok)
	assert.Equal(t, 1000.0, w)

	// Dates are parsed in m/d/yyyy form.
	ts, ok := tbl.Row(0).Get("date").Timestamp()
	require.True(t, ok)
	assert.Equal(t, 1998, ts.Year())

	// The load appears as the first lineage step.
	steps := tbl.Lineage()
	require.Len(t, steps, 1)
	assert.Equal(t, "load", steps[0].Op)
	assert.Equal(t, 4, steps[0].RowsOut)
}

func TestReadInfersColumnTypes(t *testing.T) {
	path := writeFixture(t, "captures.csv", captureCSV)

	tbl, err := NewReader().Read(context.Background(), path)
	require.NoError(t, err)

	types := map[core.FieldName]table.ValueType{}
	for _, f := range tbl.Schema().Fields() {
		types[f.Name] = f.Type
	}
	assert.Equal(t, table.ValueTypeTimestamp, types["date"])
	assert.Equal(t, table.ValueTypeString, types["grid"])
	assert.Equal(t, table.ValueTypeNumeric, types["weight"])
	assert.Equal(t, table.ValueTypeNumeric, types["hindft"])
}

func TestReadHonorsSchemaHints(t *testing.T) {
	// A column of bare digits would infer numeric; the hint keeps it text.
	csv := "id,weight\n001,700\n002,800\n"
	path := writeFixture(t, "coded.csv", csv)

	reader := NewReaderWithHints(map[core.FieldName]table.ValueType{"id": table.ValueTypeString})
	tbl, err := reader.Read(context.Background(), path)
	require.NoError(t, err)

	id, ok := tbl.Row(0).Get("id").Text()
	require.True(t, ok)
	assert.Equal(t, "001", id)
}

func TestReadMissingFileIsDataAccessError(t *testing.T) {
	_, err := NewReader().Read(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, core.IsDataAccessError(err))
	assert.True(t, core.IsFatal(err))
}

func TestReadHeaderOnlyIsParseError(t *testing.T) {
	path := writeFixture(t, "empty.csv", "date,weight\n")
	_, err := NewReader().Read(context.Background(), path)
	require.Error(t, err)
	assert.True(t, core.IsParseError(err))
}

func TestReadWideRowIsParseError(t *testing.T) {
	path := writeFixture(t, "ragged.csv", "a,b\n1,2\n1,2,3\n")
	_, err := NewReader().Read(context.Background(), path)
	require.Error(t, err)
	assert.True(t, core.IsParseError(err))
}

func TestReadShortRowPadsMissing(t *testing.T) {
	path := writeFixture(t, "short.csv", "a,b\n1,2\n3\n")
	tbl, err := NewReader().Read(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, tbl.Row(1).Get("b").IsMissing)
}

func TestCoercerNormalizesCategoricalValues(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	v := c.Coerce(" Bonrip ", table.ValueTypeString)
	s, ok := v.Text()
	require.True(t, ok)
	assert.Equal(t, "bonrip", s)

	assert.True(t, c.Coerce("", table.ValueTypeNumeric).IsMissing)
	assert.True(t, c.Coerce("n/a?", table.ValueTypeNumeric).IsMissing, "unparseable numerics degrade to missing")
}
