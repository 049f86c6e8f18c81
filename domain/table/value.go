package table

import (
	"fmt"
	"time"
)

// ValueType defines the storage type for cells
type ValueType string

const (
	ValueTypeNumeric   ValueType = "numeric"
	ValueTypeString    ValueType = "string"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeMissing   ValueType = "missing"
)

// Value represents a typed cell with explicit missingness. A missing cell
// is retained in its row so the row stays countable; numeric aggregates
// skip it rather than treating it as zero.
type Value struct {
	Type         ValueType  `json:"type"`
	StringVal    *string    `json:"string_val,omitempty"`
	NumericVal   *float64   `json:"numeric_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
	IsMissing    bool       `json:"is_missing"`
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewStringValue creates a categorical/text value; empty strings are missing
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewTimestampValue creates a timestamp value
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, TimestampVal: &t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// Numeric returns the numeric payload, false when missing or non-numeric
func (v Value) Numeric() (float64, bool) {
	if v.IsMissing || v.Type != ValueTypeNumeric || v.NumericVal == nil {
		return 0, false
	}
	return *v.NumericVal, true
}

// Text returns the string payload, false when missing or non-string
func (v Value) Text() (string, bool) {
	if v.IsMissing || v.Type != ValueTypeString || v.StringVal == nil {
		return "", false
	}
	return *v.StringVal, true
}

// Timestamp returns the timestamp payload, false when missing or untyped
func (v Value) Timestamp() (time.Time, bool) {
	if v.IsMissing || v.Type != ValueTypeTimestamp || v.TimestampVal == nil {
		return time.Time{}, false
	}
	return *v.TimestampVal, true
}

// String returns the string representation of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		if v.StringVal != nil {
			return *v.StringVal
		}
	case ValueTypeNumeric:
		if v.NumericVal != nil {
			return fmt.Sprintf("%g", *v.NumericVal)
		}
	case ValueTypeTimestamp:
		if v.TimestampVal != nil {
			return v.TimestampVal.Format(time.RFC3339)
		}
	case ValueTypeMissing:
		return "<missing>"
	}
	return "<invalid>"
}
