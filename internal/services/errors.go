package services

import (
	"errors"
	"fmt"
	"net/http"

	"jobboard/internal/validation"
)

// Error types. Client faults map to 4xx, system faults to 5xx.
const (
	ErrTypeValidation         = "VALIDATION_ERROR"
	ErrTypeUnauthorized       = "UNAUTHORIZED"
	ErrTypeForbidden          = "FORBIDDEN"
	ErrTypeNotFound           = "NOT_FOUND"
	ErrTypeConflict           = "CONFLICT"
	ErrTypeRateLimited        = "RATE_LIMITED"
	ErrTypeInternal           = "INTERNAL_ERROR"
	ErrTypeUpstream           = "UPSTREAM_ERROR"
	ErrTypeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ServiceError represents a structured service error
type ServiceError struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for this error
func (e *ServiceError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the caller caused the failure
func (e *ServiceError) IsClientError() bool {
	code := e.GetStatusCode()
	return code >= 400 && code < 500
}

// ===============================
// ERROR CONSTRUCTORS
// ===============================

// NewValidationError creates a validation error. Field level failures
// from the validator are attached as details.
func NewValidationError(message string, cause error) *ServiceError {
	err := &ServiceError{
		Type:       ErrTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}

	var fields validation.Errors
	if errors.As(cause, &fields) {
		err.Details = map[string]interface{}{"fields": fields}
		if message == "" {
			err.Message = fields.Error()
		}
	}
	if err.Message == "" {
		err.Message = "Invalid request"
	}
	return err
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message, code string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeConflict,
		Message:    message,
		Code:       code,
		StatusCode: http.StatusConflict,
	}
}

// NewRateLimitError creates a too many requests error
func NewRateLimitError(message string) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeRateLimited,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewUpstreamError reports a failure of a third party dependency
func NewUpstreamError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeUpstream,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string, cause error) *ServiceError {
	return &ServiceError{
		Type:       ErrTypeServiceUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// ===============================
// ERROR UTILITIES
// ===============================

// GetServiceError extracts a ServiceError from an error chain, or wraps
// the error as an internal error
func GetServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return NewInternalError("An internal error occurred", err)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType string) bool {
	var serviceErr *ServiceError
	return errors.As(err, &serviceErr) && serviceErr.Type == errorType
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return IsErrorType(err, ErrTypeNotFound)
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return IsErrorType(err, ErrTypeConflict)
}

// IsClientError reports whether err is a client fault
func IsClientError(err error) bool {
	var serviceErr *ServiceError
	return errors.As(err, &serviceErr) && serviceErr.IsClientError()
}
