package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for the fanout CLI
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCommandNotFound indicates a named command is missing from the registry
	ErrCommandNotFound = errors.New("command not found")

	// ErrScriptNotFound indicates the script source is missing or unreadable
	ErrScriptNotFound = errors.New("script not found")

	// ErrModuleNotFound indicates a module file or directory is missing
	ErrModuleNotFound = errors.New("module not found")

	// ErrTimeout indicates an operation exceeded its wait budget
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrNoTargets indicates an empty target list
	ErrNoTargets = errors.New("no targets")
)

// TargetError wraps an error with the target it occurred for
type TargetError struct {
	Target string
	Err    error
}

// Error implements the error interface
func (e *TargetError) Error() string {
	return fmt.Sprintf("target %q: %v", e.Target, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *TargetError) Unwrap() error {
	return e.Err
}

// WrapTargetError wraps an error with target context
func WrapTargetError(target string, err error) error {
	if err == nil {
		return nil
	}
	return &TargetError{
		Target: target,
		Err:    err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 { // Limit to first 10 errors in the message
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors
// It filters out nil errors
func NewMultiError(errors []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errors)),
	}
	for _, err := range errors {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommandNotFound) ||
		errors.Is(err, ErrScriptNotFound) ||
		errors.Is(err, ErrModuleNotFound)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsTimeout(err):
		return "Operation timed out. Increase the wait budget with --max-wait if tasks legitimately run long."
	case IsCancelled(err):
		return "Operation was cancelled."
	case errors.Is(err, ErrCommandNotFound):
		return "Command not found in the registry. Run `fanout commands list` to see registered commands."
	case errors.Is(err, ErrScriptNotFound):
		return "Script not found or unreadable. Check the --script path."
	case errors.Is(err, ErrModuleNotFound):
		return "Module not found. Check the --module and --module-path values."
	case errors.Is(err, ErrNoTargets):
		return "No targets supplied. Pass targets as arguments or via --targets-file."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	default:
		// Return the original error message for unknown errors
		return err.Error()
	}
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errors ...error) error {
	m := NewMultiError(errors)
	return m.ErrorOrNil()
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
