package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeDirectoryNotFound ErrorType = "directory_not_found"
	ErrorTypeInvalidThreshold  ErrorType = "invalid_threshold"
	ErrorTypeDecode            ErrorType = "decode_failure"
	ErrorTypeMeasurement       ErrorType = "measurement_failure"
	ErrorTypeExport            ErrorType = "export_failure"
	ErrorTypeInternal          ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewDirectoryNotFoundError reports that the input path does not exist or
// is not a directory. This aborts a run before any file is touched.
func NewDirectoryNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDirectoryNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// NewInvalidThresholdError reports a manual threshold level outside the
// accepted [0,255] range. This is a fatal configuration error.
func NewInvalidThresholdError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidThreshold,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewDecodeError reports a per-file decode failure. Decode failures are
// recovered: the file is counted as an error and the batch continues.
func NewDecodeError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDecode,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewMeasurementError reports a per-file measurement failure. Like decode
// failures these are recovered and counted, never fatal to the batch.
func NewMeasurementError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMeasurement,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewExportError reports that the results table could not be persisted.
// The in-memory rows remain available to the caller for retry.
func NewExportError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExport,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
