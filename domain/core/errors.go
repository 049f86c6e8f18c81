package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load-time errors, fatal for the pipeline
	ErrDataAccess = errors.New("dataset not accessible")
	ErrParse      = errors.New("dataset not parseable as tabular data")

	// Row-level errors, recovered as missingness
	ErrDerivation = errors.New("derived field computation failed")

	// Statistical errors, surfaced per operation
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Lookup errors
	ErrFieldNotFound = errors.New("field not found in schema")
)

// Error constructors with context
func NewDataAccessError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataAccess, path, err)
}

func NewParseError(detail string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrParse, detail)
	}
	return fmt.Errorf("%w: %s: %v", ErrParse, detail, err)
}

func NewDerivationError(field string, row int, err error) error {
	return fmt.Errorf("%w: field %s row %d: %v", ErrDerivation, field, row, err)
}

func NewInsufficientDataError(op string, need, have int) error {
	return fmt.Errorf("%w: %s needs %d non-missing values, have %d", ErrInsufficientData, op, need, have)
}

func NewFieldNotFoundError(field string) error {
	return fmt.Errorf("%w: %s", ErrFieldNotFound, field)
}

// Error checking helpers
func IsDataAccessError(err error) bool {
	return errors.Is(err, ErrDataAccess)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// IsFatal reports whether an error must abort the whole run rather than
// degrade a single analysis section.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDataAccess) || errors.Is(err, ErrParse)
}
