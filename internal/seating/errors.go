package seating

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("invalid request")
	// ErrInvalidDate is a validation failure on the reservation date: unparsable or in the past.
	ErrInvalidDate = fmt.Errorf("%w: date must be today or a future date", ErrValidation)

	ErrNotFound            = errors.New("not found")
	ErrAreaNotFound        = fmt.Errorf("area %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)

	ErrCapacityUnavailable = errors.New("no table with enough capacity in this area")
	ErrScheduleConflict    = errors.New("no table available for the requested time")
	ErrAreaTableLimit      = errors.New("table limit reached")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field  string
	Reason string
	// Err is the sentinel the error unwraps to; ErrValidation when nil.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrValidation
}

func required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}
