package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the tpool library

var (
	// ErrPoolStopped indicates that a submission was attempted after
	// shutdown was initiated
	ErrPoolStopped = errors.New("pool is stopped")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrUnknownTask indicates a lookup for a task id that was never registered
	ErrUnknownTask = errors.New("unknown task")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsRetryable returns true if the error indicates a condition that might
// be resolved by retrying the operation
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// TaskError reports that a submitted task failed during execution. The
// original failure is available via Unwrap / errors.Is / errors.As.
type TaskError struct {
	// Err is the error returned (or recovered from a panic) by the task.
	Err error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task failed: %v", e.Err)
}

// Unwrap returns the original task failure.
func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskError wraps an error returned by a task's Execute method.
func NewTaskError(err error) *TaskError {
	return &TaskError{Err: err}
}

// IsTaskError returns true if err (or anything it wraps) is a TaskError.
func IsTaskError(err error) bool {
	var te *TaskError
	return errors.As(err, &te)
}

// ValidationError provides structured information about invalid
// configuration or argument values.
type ValidationError struct {
	Module string      // component reporting the error, e.g. "pool"
	Field  string      // offending field or parameter name
	Value  interface{} // the rejected value
	Reason string      // why the value was rejected
	Hint   string      // optional suggestion for fixing it
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap makes ValidationError match ErrInvalidConfiguration with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a suggestion to the error and returns the same instance
// for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

// IsValidationError returns true if err (or anything it wraps) is a
// ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
