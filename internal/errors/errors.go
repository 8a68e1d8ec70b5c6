// Package errors provides a lightweight structured error type (LinkOnceError)
// for category-based classification in the CLI and preview server.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a linkonce error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content acquisition and indexing errors
	CategorySource ErrorCategory = "source"
	CategoryIndex  ErrorCategory = "index"

	// Rendering errors
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryEvents   ErrorCategory = "events"
	CategoryServer   ErrorCategory = "server"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// LinkOnceError is a structured error with category, severity, and context
type LinkOnceError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for LinkOnceError
type ContextFields map[string]any

// Error implements the error interface
func (e *LinkOnceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *LinkOnceError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *LinkOnceError) WithContext(key string, value any) *LinkOnceError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new LinkOnceError
func New(category ErrorCategory, severity ErrorSeverity, message string) *LinkOnceError {
	return &LinkOnceError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new LinkOnceError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *LinkOnceError {
	return &LinkOnceError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapError wraps an existing error with SeverityError
func WrapError(err error, category ErrorCategory, message string) *LinkOnceError {
	return &LinkOnceError{
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

// ValidationError creates a new validation error
func ValidationError(message string) *LinkOnceError {
	return &LinkOnceError{
		Category: CategoryValidation,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if loe, ok := err.(*LinkOnceError); ok {
		return loe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if it is not a LinkOnceError
func GetCategory(err error) ErrorCategory {
	if loe, ok := err.(*LinkOnceError); ok {
		return loe.Category
	}
	return CategoryInternal
}
