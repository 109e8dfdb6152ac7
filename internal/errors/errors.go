// Package errors provides standardized domain errors with codes for the ReadLog API.
//
// Usage:
//
//	// In services - return typed errors
//	if book == nil {
//	    return errors.NotFoundf("book %s not found", id)
//	}
//
//	// Field-level validation failures are aggregated before returning
//	var fe errors.FieldErrors
//	fe.Add("title", errors.FieldEmpty)
//	fe.Add("status", errors.FieldInvalidStatus, "WANT_TO_READ", "READING", "READ")
//	if err := fe.Err("validation failed"); err != nil {
//	    return err
//	}
//
//	// In handlers - check with errors.Is or switch on the Code
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    w.WriteHeader(domainErr.HTTPStatus())
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is = errors.Is
	As = errors.As
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeValidation           Code = "VALIDATION"
	CodeGenreNotFound        Code = "GENRE_NOT_FOUND"
	CodeInvalidBody          Code = "INVALID_BODY"
	CodeNotFound             Code = "NOT_FOUND"
	CodeConflict             Code = "CONFLICT"
	CodeUnsupportedMediaType Code = "UNSUPPORTED_MEDIA_TYPE"
	CodeRateLimited          Code = "RATE_LIMITED"
	CodeStorage              Code = "STORAGE"
	CodeInternal             Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeInvalidBody:
		return http.StatusBadRequest
	case CodeGenreNotFound:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsValidation reports whether the code carries field-level details.
func (c Code) IsValidation() bool {
	return c == CodeValidation || c == CodeGenreNotFound
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// FieldErrors returns the field-level details, or nil when the error has none.
func (e *Error) FieldErrors() FieldErrors {
	fe, _ := e.Details.(FieldErrors)
	return fe
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrValidation           = &Error{Code: CodeValidation, Message: "validation error"}
	ErrGenreNotFound        = &Error{Code: CodeGenreNotFound, Message: "genres not found"}
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict             = &Error{Code: CodeConflict, Message: "conflict"}
	ErrUnsupportedMediaType = &Error{Code: CodeUnsupportedMediaType, Message: "unsupported media type"}
	ErrStorage              = &Error{Code: CodeStorage, Message: "storage error"}
)

// Constructor functions for creating errors with custom messages.

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// InvalidBody creates an error for request bodies that cannot be decoded.
func InvalidBody(msg string) *Error {
	return &Error{Code: CodeInvalidBody, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf creates a conflict error with formatted message.
func Conflictf(format string, args ...any) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedMediaType creates an unsupported media type error.
func UnsupportedMediaType(msg string) *Error {
	return &Error{Code: CodeUnsupportedMediaType, Message: msg}
}

// Storage creates a storage error.
func Storage(msg string) *Error {
	return &Error{Code: CodeStorage, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}
