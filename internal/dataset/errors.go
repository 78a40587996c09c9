package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates no loader accepts the file extension.
	ErrUnsupportedFormat = errors.New("unsupported table format")
	// ErrNoConditions indicates a table without condition columns.
	ErrNoConditions = errors.New("no condition columns")
	// ErrUnknownColumn indicates a requested condition header is absent.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotNumeric indicates a condition cell that cannot be coerced.
	ErrNotNumeric = errors.New("not numeric")
	// ErrMissingValue indicates a blank condition cell in a non-blank row.
	ErrMissingValue = errors.New("missing value")
)

// CellError locates a coercion failure. Row is the 1-based sheet row,
// counting the header as row 1.
type CellError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("row %d, column %q: %v: %q", e.Row, e.Column, e.Err, e.Value)
	}
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }
