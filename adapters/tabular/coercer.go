package tabular

import (
	"math"
	"strconv"
	"strings"
	"time"

	"harestats/domain/table"
)

// CoercionConfig defines thresholds for column type inference.
type CoercionConfig struct {
	NumericThreshold   float64  // fraction of non-empty cells that must parse as numbers
	TimestampThreshold float64  // fraction of non-empty cells that must parse as dates
	DateFormats        []string // tried in order
	NormalizeStrings   bool     // trim and lowercase categorical values
}

// DefaultCoercionConfig returns sensible defaults for field observation data.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   0.8,
		TimestampThreshold: 0.8,
		DateFormats: []string{
			time.RFC3339,
			"2006-01-02",
			"2006/01/02",
			"01/02/2006",
			"1/2/2006",
			"1/2/06",
			"02-Jan-2006",
		},
		NormalizeStrings: true,
	}
}

// TypeCoercer converts raw cells to typed values deterministically.
type TypeCoercer struct {
	config CoercionConfig
}

// NewTypeCoercer creates a coercer with the given config.
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// Coerce converts one raw cell to the declared column type. An empty cell
// is missing regardless of type; a cell that fails to parse under its
// column type is also missing, never zero.
func (c *TypeCoercer) Coerce(raw string, t table.ValueType) table.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return table.NewMissingValue()
	}

	switch t {
	case table.ValueTypeNumeric:
		if v, ok := c.tryParseNumeric(raw); ok {
			return v
		}
		return table.NewMissingValue()
	case table.ValueTypeTimestamp:
		if v, ok := c.tryParseTimestamp(raw); ok {
			return v
		}
		return table.NewMissingValue()
	default:
		return c.coerceToString(raw)
	}
}

// InferType picks a column type from a sample of raw cells. Numeric wins
// over timestamp wins over string, each gated by its threshold over the
// non-empty cells only.
func (c *TypeCoercer) InferType(sample []string) table.ValueType {
	nonEmpty, numeric, timestamp := 0, 0, 0
	for _, raw := range sample {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		nonEmpty++
		if _, ok := c.tryParseNumeric(raw); ok {
			numeric++
		}
		if _, ok := c.tryParseTimestamp(raw); ok {
			timestamp++
		}
	}
	if nonEmpty == 0 {
		return table.ValueTypeString
	}
	if float64(numeric)/float64(nonEmpty) >= c.config.NumericThreshold {
		return table.ValueTypeNumeric
	}
	if float64(timestamp)/float64(nonEmpty) >= c.config.TimestampThreshold {
		return table.ValueTypeTimestamp
	}
	return table.ValueTypeString
}

func (c *TypeCoercer) tryParseNumeric(raw string) (table.Value, bool) {
	// Strip thousands separators before parsing; scientific notation is
	// handled by ParseFloat itself.
	clean := strings.ReplaceAll(raw, ",", "")
	if val, err := strconv.ParseFloat(clean, 64); err == nil {
		if !math.IsInf(val, 0) && !math.IsNaN(val) {
			return table.NewNumericValue(val), true
		}
	}
	return table.Value{}, false
}

func (c *TypeCoercer) tryParseTimestamp(raw string) (table.Value, bool) {
	for _, format := range c.config.DateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return table.NewTimestampValue(t), true
		}
	}
	return table.Value{}, false
}

func (c *TypeCoercer) coerceToString(raw string) table.Value {
	if c.config.NormalizeStrings {
		raw = strings.ToLower(strings.TrimSpace(raw))
	}
	return table.NewStringValue(raw)
}

// ParseDate exposes the coercer's date formats for derive steps that parse
// a raw date field outside the load path.
func (c *TypeCoercer) ParseDate(raw string) (time.Time, bool) {
	v, ok := c.tryParseTimestamp(strings.TrimSpace(raw))
	if !ok {
		return time.Time{}, false
	}
	t, _ := v.Timestamp()
	return t, true
}
