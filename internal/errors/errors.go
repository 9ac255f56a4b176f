// Package errors defines the typed failures raised by the event emission
// pipeline. Every failure originates in I/O or configuration; sanitization
// itself never fails.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a pipeline failure
type ErrorType string

const (
	// ErrorTypeConfiguration is raised when a required configuration value is missing
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"

	// ErrorTypeSaltResolution is raised when neither the parameter store nor the
	// configured overrides could supply both salts
	ErrorTypeSaltResolution ErrorType = "SALT_RESOLUTION"

	// Parameter store errors
	ErrorTypeParameterNotFound ErrorType = "PARAMETER_NOT_FOUND"
	ErrorTypeParameterFetch    ErrorType = "PARAMETER_FETCH"

	// ErrorTypeStorageWrite is raised when the durable blob write fails
	ErrorTypeStorageWrite ErrorType = "STORAGE_WRITE"

	ErrorTypeValidation ErrorType = "VALIDATION"
)

// Error is the single error type surfaced by the pipeline
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// NewConfigurationError reports a missing configuration value by its key
func NewConfigurationError(key string) *Error {
	return &Error{
		Type:    ErrorTypeConfiguration,
		Message: fmt.Sprintf("missing required configuration %s", key),
	}
}

// NewSaltResolutionError reports that no salt source succeeded
func NewSaltResolutionError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeSaltResolution,
		Message: "unable to resolve hash salts from parameter store or fallback configuration",
		Cause:   cause,
	}
}

// NewParameterNotFoundError reports a parameter absent from the backing store
func NewParameterNotFoundError(name string) *Error {
	return &Error{
		Type:    ErrorTypeParameterNotFound,
		Message: fmt.Sprintf("parameter '%s' not found", name),
	}
}

// NewParameterFetchError reports a transport failure while reading a parameter
func NewParameterFetchError(name string, err error) *Error {
	return &Error{
		Type:    ErrorTypeParameterFetch,
		Message: fmt.Sprintf("failed to fetch parameter '%s'", name),
		Cause:   err,
	}
}

// NewStorageWriteError reports a failed blob write
func NewStorageWriteError(container, key string, err error) *Error {
	return &Error{
		Type:    ErrorTypeStorageWrite,
		Message: fmt.Sprintf("failed to write object '%s' to '%s'", key, container),
		Cause:   err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// Helper functions

// GetError extracts a pipeline Error from an error chain
func GetError(err error) *Error {
	var pipelineErr *Error
	if errors.As(err, &pipelineErr) {
		return pipelineErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	pipelineErr := GetError(err)
	return pipelineErr != nil && pipelineErr.Type == errType
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return IsType(err, ErrorTypeConfiguration)
}

// IsSaltResolution checks if an error is a salt resolution error
func IsSaltResolution(err error) bool {
	return IsType(err, ErrorTypeSaltResolution)
}

// IsParameterNotFound checks if an error is a parameter not found error
func IsParameterNotFound(err error) bool {
	return IsType(err, ErrorTypeParameterNotFound)
}

// IsParameterFetch checks if an error is a parameter fetch error
func IsParameterFetch(err error) bool {
	return IsType(err, ErrorTypeParameterFetch)
}

// IsStorageWrite checks if an error is a storage write error
func IsStorageWrite(err error) bool {
	return IsType(err, ErrorTypeStorageWrite)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}
