// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// evaluation, server) and for carrying the underlying cause. It also maps
// errors to process exit codes.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types implement the Unwrap() method to support errors.Is() and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/agbru/nbase/pkg/nbase"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error.
	ExitErrorTimeout    = 2   // Indicates the operation timed out.
	ExitErrorInput      = 3   // Indicates malformed input: a bad number, base or charset.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorArithmetic = 5   // Indicates an arithmetic failure such as division by zero.
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
// It allows for the creation of configuration-specific errors with dynamic
// content.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EvalError encapsulates a failed evaluation while preserving the original
// cause. Op names the operation that was requested (e.g. "div").
type EvalError struct {
	// Op is the requested operation.
	Op string
	// Cause is the underlying error that triggered this evaluation error.
	Cause error
}

// Error returns the operation name followed by the underlying message.
//
// Returns:
//   - string: The error message string.
func (e EvalError) Error() string {
	if e.Op == "" {
		return e.Cause.Error()
	}
	return e.Op + ": " + e.Cause.Error()
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the EvalError.
func (e EvalError) Unwrap() error { return e.Cause }

// NewEvalError wraps cause for the operation op. It returns nil when cause is
// nil.
//
// Parameters:
//   - op: The requested operation.
//   - cause: The underlying error.
//
// Returns:
//   - error: A new EvalError, or nil.
func NewEvalError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return EvalError{Op: op, Cause: cause}
}

// ServerError represents errors that occur in the HTTP server component.
// It wraps an underlying error with additional context specific to the server operation.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ServerError.
// It combines the descriptive message and the underlying cause if present.
//
// Returns:
//   - string: The complete error message.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
//
// Returns:
//   - error: The cause of the ServerError, or nil if there is none.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
//
// Parameters:
//   - message: A description of the error context.
//   - cause: The underlying error that occurred (can be nil).
//
// Returns:
//   - error: A new ServerError instance.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ValidationError represents an error due to invalid input validation.
// It is used for API request validation and configuration validation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
	// Cause is a sentinel the error can be matched against (optional).
	Cause error
}

// Unwrap returns the sentinel cause, if any.
func (e ValidationError) Unwrap() error { return e.Cause }

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
//
// Parameters:
//   - field: The name of the field that failed validation.
//   - message: A description of why validation failed.
//   - value: The invalid value (optional).
//
// Returns:
//   - error: A new ValidationError instance.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// ExitCodeFor maps an error to the process exit code that describes it.
//
// Parameters:
//   - err: The error to classify (nil means success).
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCodeFor(err error) int {
	var cfg ConfigError
	var val ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfg):
		return ExitErrorConfig
	case errors.Is(err, nbase.ErrInvalidArgument),
		errors.Is(err, nbase.ErrInvalidBase),
		errors.Is(err, nbase.ErrInvalidCharset),
		errors.Is(err, nbase.ErrUnknownSymbol),
		errors.As(err, &val):
		return ExitErrorInput
	case errors.Is(err, nbase.ErrDivisionByZero),
		errors.Is(err, nbase.ErrNegativeExponent),
		errors.Is(err, nbase.ErrOverflow),
		errors.Is(err, nbase.ErrMismatchedRepresentation):
		return ExitErrorArithmetic
	default:
		return ExitErrorGeneric
	}
}

// IsInputError reports whether err was caused by the caller's input rather
// than by the program.
func IsInputError(err error) bool {
	code := ExitCodeFor(err)
	return code == ExitErrorInput || code == ExitErrorArithmetic
}
