package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeIntegrity covers structural defects in the input data:
	// duplicate merge keys, missing fields, implicate counts other than 5.
	ErrTypeIntegrity ErrorType = "INTEGRITY"
	// ErrTypeValidation covers field values outside the accepted domain,
	// such as an unrecognized education classification code.
	ErrTypeValidation ErrorType = "VALIDATION"
	// ErrTypeEmptyPopulation is raised when a statistic has no eligible
	// observations. It is fatal: a silent zero would flow into the
	// calibration targets unnoticed.
	ErrTypeEmptyPopulation ErrorType = "EMPTY_POPULATION"
	// ErrTypeConfig covers bad analysis parameters, including an unknown
	// wealth-variant switch value.
	ErrTypeConfig ErrorType = "CONFIG"
	// ErrTypeParsing covers unreadable or malformed input files.
	ErrTypeParsing ErrorType = "PARSING"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error. Stages use this to record which
// unit or key produced the failure.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewIntegrityError creates a data-integrity error
func NewIntegrityError(message string, cause error) *AppError {
	return NewAppError(ErrTypeIntegrity, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewEmptyPopulationError creates an empty-population error
func NewEmptyPopulationError(message string) *AppError {
	return NewAppError(ErrTypeEmptyPopulation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewParsingError creates a parsing error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// IsType reports whether err (or anything it wraps) is an AppError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
