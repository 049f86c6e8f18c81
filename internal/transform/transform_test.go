package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harestats/domain/core"
	"harestats/domain/table"
)

func testTable(t *testing.T) table.Table {
	t.Helper()
	schema := table.NewSchema([]table.Field{
		{Name: "sex", Type: table.ValueTypeString},
		{Name: "weight", Type: table.ValueTypeNumeric},
		{Name: "date", Type: table.ValueTypeTimestamp},
	})
	day := func(y int, m time.Month, d int) table.Value {
		return table.NewTimestampValue(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	rows := [][]table.Value{
		{table.NewStringValue("m"), table.NewNumericValue(1000), day(1999, 2, 1)},
		{table.NewStringValue("f"), table.NewNumericValue(800), day(1999, 8, 12)},
		{table.NewStringValue("m"), table.NewMissingValue(), day(2000, 3, 5)},
		{table.NewStringValue("x"), table.NewNumericValue(920), table.NewMissingValue()},
	}
	return table.New(schema, rows, "test")
}

func TestFilterRetainsOnlyMatchingRowsInOrder(t *testing.T) {
	in := testTable(t)

	out := Filter(in, "sex=m", func(r table.Record) bool {
		sex, _ := r.Get("sex").Text()
		return sex == "m"
	})

	require.Equal(t, 2, out.Len())
	for i := 0; i < out.Len(); i++ {
		sex, ok := out.Row(i).Get("sex").Text()
		require.True(t, ok)
		assert.Equal(t, "m", sex)
	}

	// Relative order preserved: 1000 before the missing weight.
	w, ok := out.Row(0).Get("weight").Numeric()
	require.True(t, ok)
	assert.Equal(t, 1000.0, w)
	assert.True(t, out.Row(1).Get("weight").IsMissing)

	// The input table is untouched and the lineage grew by one step.
	assert.Equal(t, 4, in.Len())
	steps := out.Lineage()
	assert.Equal(t, "filter", steps[len(steps)-1].Op)
	assert.NotEqual(t, in.ID(), out.ID())
}

func TestDeriveRecoversRowFailuresAsMissing(t *testing.T) {
	in := testTable(t)

	out := Derive(in, "double_weight", table.ValueTypeNumeric, func(r table.Record) (table.Value, error) {
		w, ok := r.Get("weight").Numeric()
		if !ok {
			return table.Value{}, errors.New("no weight")
		}
		return table.NewNumericValue(2 * w), nil
	})

	require.Equal(t, in.Len(), out.Len())
	v, ok := out.Row(0).Get("double_weight").Numeric()
	require.True(t, ok)
	assert.Equal(t, 2000.0, v)
	assert.True(t, out.Row(2).Get("double_weight").IsMissing)

	steps := out.Lineage()
	assert.Equal(t, 1, steps[len(steps)-1].Failures)
}

func TestDeriveStrictAbortsOnFirstFailure(t *testing.T) {
	in := testTable(t)

	_, err := DeriveStrict(in, "required", table.ValueTypeNumeric, func(r table.Record) (table.Value, error) {
		w, ok := r.Get("weight").Numeric()
		if !ok {
			return table.Value{}, errors.New("no weight")
		}
		return table.NewNumericValue(w), nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDerivation))
}

func TestRecodeMapsCodesAndDefaultsUnmapped(t *testing.T) {
	in := testTable(t)

	out, err := Recode(in, "sex", map[string]string{"m": "Male", "f": "Female"}, "Unknown")
	require.NoError(t, err)

	got := make([]string, 0, out.Len())
	for i := 0; i < out.Len(); i++ {
		s, _ := out.Row(i).Get("sex").Text()
		got = append(got, s)
	}
	assert.Equal(t, []string{"Male", "Female", "Male", "Unknown"}, got)
}

func TestRecodeEmptyDefaultKeepsRawCode(t *testing.T) {
	in := testTable(t)

	out, err := Recode(in, "sex", map[string]string{"m": "Male"}, "")
	require.NoError(t, err)

	s, _ := out.Row(3).Get("sex").Text()
	assert.Equal(t, "x", s)
}

func TestRecodeRoundTripRecoversRecognizedCodes(t *testing.T) {
	in := testTable(t)
	forward := map[string]string{"m": "Male", "f": "Female"}
	reverse := map[string]string{"Male": "m", "Female": "f"}

	labeled, err := Recode(in, "sex", forward, "Unknown")
	require.NoError(t, err)
	back, err := Recode(labeled, "sex", reverse, "?")
	require.NoError(t, err)

	// Recognized codes survive the round trip; the unmapped "x" collapsed
	// to the default and is not recoverable.
	want := []string{"m", "f", "m", "?"}
	for i, w := range want {
		s, _ := back.Row(i).Get("sex").Text()
		assert.Equal(t, w, s)
	}
}

func TestRecodeUnknownFieldFails(t *testing.T) {
	_, err := Recode(testTable(t), "nope", nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrFieldNotFound))
}

func TestDeriveYearAndMonth(t *testing.T) {
	in := testTable(t)

	out := DeriveYear(in, "date", "year")
	out = DeriveMonth(out, "date", "month")

	year, ok := out.Row(0).Get("year").Numeric()
	require.True(t, ok)
	assert.Equal(t, 1999.0, year)
	month, ok := out.Row(1).Get("month").Numeric()
	require.True(t, ok)
	assert.Equal(t, 8.0, month)

	// A missing date yields a missing year, not an aborted table.
	assert.True(t, out.Row(3).Get("year").IsMissing)
	assert.True(t, out.Row(3).Get("month").IsMissing)
}
