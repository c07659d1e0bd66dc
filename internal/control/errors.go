package control

import (
	"errors"
	"fmt"
)

// ErrCanceled is returned when the user declines a confirmation.
var ErrCanceled = errors.New("control: canceled")

// ValidationError rejects user input before any I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// LogicError reports a request that is inconsistent with the controller
// state, such as switching profiles with none active. Nothing is mutated.
type LogicError struct {
	Op     string
	Reason string
}

func (e *LogicError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
