package models

import (
	"errors"
	"fmt"
)

// ErrArgument indicates an invalid argument passed to a model or builder operation.
var ErrArgument = errors.New("invalid argument")

// ErrArgumentNil indicates a required name or value was missing or blank.
var ErrArgumentNil = fmt.Errorf("%w: value is required", ErrArgument)

// ErrDuplicateName indicates a name collided with an already registered name.
var ErrDuplicateName = fmt.Errorf("%w: duplicate name", ErrArgument)

// ErrArgumentOutOfRange indicates an argument outside the accepted shape or type.
var ErrArgumentOutOfRange = errors.New("argument out of range")

// ErrInvalidOperation indicates an operation that is not valid in the current state.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrNotFound indicates a lookup by name or type found nothing.
var ErrNotFound = errors.New("not found")
