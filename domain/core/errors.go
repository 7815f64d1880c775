package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrUnknownEntity   = fmt.Errorf("%w: entity", ErrNotFound)
	ErrUnknownChart    = fmt.Errorf("%w: chart", ErrNotFound)
	ErrUnknownDataset  = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// Schema errors
	ErrMissingColumn = errors.New("required column missing")
	ErrBadCell       = errors.New("unparseable cell")
	ErrEmptySource   = errors.New("dataset source is empty")
)

// NewMissingColumnError reports a required column absent from a source
func NewMissingColumnError(source, column string) error {
	return fmt.Errorf("%w: %s lacks column %q", ErrMissingColumn, source, column)
}

// NewBadCellError reports a cell that could not be parsed at load time
func NewBadCellError(source string, row int, column, value string) error {
	return fmt.Errorf("%w: %s row %d column %q value %q", ErrBadCell, source, row, column, value)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSchemaError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrBadCell) ||
		errors.Is(err, ErrEmptySource)
}
