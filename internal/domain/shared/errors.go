package shared

import "strings"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ValidationError is a domain error that carries the list of fields
// that failed validation, so callers can report exactly what is missing.
type ValidationError struct {
	DomainError
	Fields []string `json:"fields,omitempty"`
}

// NewValidationError creates a validation error for the given fields
func NewValidationError(message string, fields ...string) *ValidationError {
	if message == "" {
		message = "Missing required fields: " + strings.Join(fields, ", ")
	}
	return &ValidationError{
		DomainError: DomainError{Code: "VALIDATION_ERROR", Message: message},
		Fields:      fields,
	}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists  = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput   = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState   = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnauthorized   = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrStoreUnhealthy = NewDomainError("STORE_UNAVAILABLE", "Persistence backend is unavailable")
)
