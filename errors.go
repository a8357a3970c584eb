package triage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every *InputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParseFailure is matched by every *ParseError. It is distinct from an
	// Unrecognized category: the model output could not be interpreted at all.
	ErrParseFailure = errors.New("parse failure")
)

// InputError reports a problem with caller-supplied input. It is detected
// locally, before any completion request is made.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func inputError(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseError reports model output that could not be interpreted.
type ParseError struct {
	Strategy  StrategyKind
	RequestID string
	Reason    string
	Raw       string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure (%s): %s", e.Strategy, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}
