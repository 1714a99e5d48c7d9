// Package coerce implements the default conversions between native cell
// values and Go values.
package coerce

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupported indicates there is no default conversion for a type.
var ErrUnsupported = errors.New("unsupported conversion")

// ConversionError represents a failed conversion of a cell value.
type ConversionError struct {
	Value  any
	Target reflect.Type
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v (%T) to %v: %v", e.Value, e.Value, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError.
func NewConversionError(value any, target reflect.Type, err error) *ConversionError {
	return &ConversionError{
		Value:  value,
		Target: target,
		Err:    err,
	}
}
