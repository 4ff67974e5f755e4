package partvalidator

import (
	"errors"
	"fmt"
)

// ValidationErrorType categorizes a validation failure
type ValidationErrorType string

const (
	ErrorTypeName        ValidationErrorType = "name"
	ErrorTypeSize        ValidationErrorType = "size"
	ErrorTypeContentType ValidationErrorType = "content-type"
	ErrorTypeFileName    ValidationErrorType = "filename"
	ErrorTypeExtension   ValidationErrorType = "extension"
	ErrorTypeContent     ValidationErrorType = "content"
)

// ValidationError is returned for every part that fails a constraint.
type ValidationError struct {
	// Type categorizes the failure for programmatic handling.
	Type ValidationErrorType

	// Part is the field name of the offending part, possibly empty.
	Part string

	// Message is the human-readable description.
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("%s validation error on %q: %s", e.Type, e.Part, e.Message)
	}
	return fmt.Sprintf("%s validation error: %s", e.Type, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(errType ValidationErrorType, part, message string) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Part:    part,
		Message: message,
	}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsErrorOfType checks if an error is a ValidationError of the specified type
func IsErrorOfType(err error, errType ValidationErrorType) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Type == errType
	}
	return false
}

// GetErrorType returns the type of a ValidationError, or empty string if not a ValidationError
func GetErrorType(err error) ValidationErrorType {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Type
	}
	return ""
}
