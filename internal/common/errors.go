package common

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFoundOrForbidden is returned when an update or delete touched zero
	// rows. The caller cannot tell a missing row from one it may not change.
	ErrNotFoundOrForbidden = errors.New("not found or not permitted")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
)

// ValidationError is raised before any store call when input is incomplete.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StepError names the step of a multi-step write that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Step wraps err with the step name. A nil err stays nil, and an err that
// already names a step is returned unchanged.
func Step(step string, err error) error {
	if err == nil {
		return nil
	}
	var se *StepError
	if errors.As(err, &se) {
		return err
	}
	return &StepError{Step: step, Err: err}
}

// RequireRows turns a zero rows-affected result into ErrNotFoundOrForbidden.
func RequireRows(rows int64, err error) error {
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}
