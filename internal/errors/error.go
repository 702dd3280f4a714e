package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryMount  Category = "mount"
	CategorySource Category = "source"
	CategoryConfig Category = "config"
	CategoryLive   Category = "live"
)

// BambooError is a structured error with a code, an explanation and a
// suggestion.
type BambooError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BambooError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BambooError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *BambooError with the same code.
func (e *BambooError) Is(target error) bool {
	t, ok := target.(*BambooError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *BambooError) WithDetail(d string) *BambooError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation to the error.
func (e *BambooError) WithDetailf(format string, args ...any) *BambooError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *BambooError) WithSuggestion(s string) *BambooError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *BambooError) Wrap(err error) *BambooError {
	e.Wrapped = err
	return e
}

// New creates a BambooError from a registered error code.
func New(code string) *BambooError {
	template, ok := registry[code]
	if !ok {
		return &BambooError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &BambooError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new BambooError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BambooError {
	return &BambooError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BambooError. An error that already
// is a *BambooError is returned unchanged.
func FromError(err error, code string) *BambooError {
	if err == nil {
		return nil
	}
	var be *BambooError
	if stderrors.As(err, &be) {
		return be
	}
	return New(code).Wrap(err)
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code string) bool {
	return stderrors.Is(err, &BambooError{Code: code})
}
