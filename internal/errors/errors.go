package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
//
// The taxonomy mirrors how the backend classifies failures: credential
// rejection, missing/ended session, insufficient role, transport failure,
// and locally detected problems (malformed stored state, bad input).
type ErrorCode string

const (
	// ErrCodeInvalidCredentials indicates the backend rejected a login attempt.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeNoSession indicates an operation requiring a session found none.
	ErrCodeNoSession ErrorCode = "no_session"
	// ErrCodeSessionExpired indicates the refresh token was rejected and the
	// session has ended. Callers must treat local auth state as cleared.
	ErrCodeSessionExpired ErrorCode = "session_expired"
	// ErrCodeForbidden indicates the authenticated role lacks rights (403).
	// Distinct from credential rejection; never triggers a logout.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeNetwork indicates the backend could not be reached.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeMalformedState indicates stored client state failed to parse.
	ErrCodeMalformedState ErrorCode = "malformed_state"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeNotFound indicates a requested resource does not exist.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// InvalidCredentials creates a new InvalidCredentials error.
func InvalidCredentials(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidCredentials, Message: message}
}

// NoSession creates a new NoSession error.
func NoSession(message string) *AppError {
	return &AppError{Code: ErrCodeNoSession, Message: message}
}

// SessionExpired creates a new SessionExpired error.
func SessionExpired(message string) *AppError {
	return &AppError{Code: ErrCodeSessionExpired, Message: message}
}

// SessionExpiredWrap creates a SessionExpired error wrapping a cause.
func SessionExpiredWrap(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeSessionExpired, Message: message, Cause: cause}
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// Network creates a new Network error wrapping the transport cause.
func Network(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeNetwork, Message: message, Cause: cause}
}

// MalformedState creates a new MalformedState error wrapping the parse cause.
func MalformedState(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeMalformedState, Message: message, Cause: cause}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Internal creates a new Internal error.
func Internal(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Cause: cause}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...)}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool {
	return isCode(err, ErrCodeInvalidCredentials)
}

// IsNoSession checks if an error is a NoSession error.
func IsNoSession(err error) bool {
	return isCode(err, ErrCodeNoSession)
}

// IsSessionExpired checks if an error is a SessionExpired error.
func IsSessionExpired(err error) bool {
	return isCode(err, ErrCodeSessionExpired)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsNetwork checks if an error is a Network error.
func IsNetwork(err error) bool {
	return isCode(err, ErrCodeNetwork)
}

// IsMalformedState checks if an error is a MalformedState error.
func IsMalformedState(err error) bool {
	return isCode(err, ErrCodeMalformedState)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
