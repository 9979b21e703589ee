package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Details map[string]any
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new AppError carrying diagnostic details.
// The detail map is owned by the error after construction and must not
// be modified by the caller.
func NewWithDetails(code, message string, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Details: appErr.Details,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeUnexpected,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode rewrites the code of an existing error, keeping its message,
// details, and cause chain intact.
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Details: appErr.Details,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// CodeOf returns the error code if it's an AppError, otherwise CodeUnexpected
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnexpected
}

// DetailsOf returns the detail map if it's an AppError, otherwise nil
func DetailsOf(err error) map[string]any {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// MessageOf returns the top-level message without the cause chain
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeDatabase      = "DATABASE_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeProvider      = "PROVIDER_ERROR"
	CodeCalculator    = "CALCULATOR_ERROR"
	CodeApplication   = "APPLICATION_ERROR"
	CodeUnexpected    = "UNEXPECTED_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeDatabase,
		Message: message,
		Cause:   cause,
	}
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func Validationf(format string, args ...any) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

func NotFound(resource string, details map[string]any) *AppError {
	return NewWithDetails(CodeNotFound, fmt.Sprintf("%s not found", resource), details)
}

// IsNotFound reports whether err is a NOT_FOUND taxonomy error.
// Providers use this to let lookup misses pass through their catch-all
// wrapping unchanged.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// ProviderFailure wraps a data-access failure. The detail map must carry
// the identifying key that was being looked up.
func ProviderFailure(message string, details map[string]any, cause error) *AppError {
	return &AppError{
		Code:    CodeProvider,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CalculatorFailure wraps a computation failure. The detail map must carry
// the analysis kind that was attempted.
func CalculatorFailure(message string, details map[string]any, cause error) *AppError {
	return &AppError{
		Code:    CodeCalculator,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// Application converts any error that is not already part of the taxonomy
// into an APPLICATION_ERROR. Taxonomy errors pass through unchanged.
func Application(err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	return &AppError{
		Code:    CodeApplication,
		Message: err.Error(),
		Cause:   err,
	}
}
