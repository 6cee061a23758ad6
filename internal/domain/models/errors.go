package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingData marks an absent dataset or column. Renderers omit the content.
	ErrMissingData = errors.New("missing data")
	// ErrUnderflow marks a slice with fewer rows than an operation needs.
	ErrUnderflow = errors.New("not enough rows")
	// ErrDegenerateInput marks an undefined statistic (n<2, zero variance).
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrDataFormat marks corrupted upstream input. It is fatal at load time.
	ErrDataFormat = errors.New("data format error")

	ErrUnknownPage  = errors.New("unknown page")
	ErrUnknownChart = errors.New("unknown chart")
)

// DataFormatError locates a malformed cell or header in an input file.
type DataFormatError struct {
	Path   string
	Row    int // 1-based line number, 0 for header problems
	Column string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: %s line %d column %q: %v", ErrDataFormat, e.Path, e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %s column %q: %v", ErrDataFormat, e.Path, e.Column, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *DataFormatError) Unwrap() []error {
	return []error{ErrDataFormat, e.Err}
}
