package loader

import (
	"errors"
	"fmt"
)

// ErrInvalidModel matches every validation failure returned by the loader.
var ErrInvalidModel = errors.New("invalid model")

// FieldError represents a single field validation failure.
type FieldError struct {
	Path   string // e.g. Document.Decisions[0].Branches[1].Probability
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Path, e.Reason, e.Value)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *ValidationErrors) Unwrap() []error {
	return append([]error{ErrInvalidModel}, e.Errors...)
}
