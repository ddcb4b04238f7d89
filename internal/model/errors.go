package model

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is returned when the input header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// LoadError wraps a failure to read a specific line of the input table.
type LoadError struct {
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
