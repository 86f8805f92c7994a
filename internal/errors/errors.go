// Package errors provides structured error types and RFC 7807 problem
// responses for the HTTP API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a structured API error with HTTP status mapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *APIError) Unwrap() error {
	return e.Err
}

// New creates a new APIError
func New(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(code, message, details string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: statusCode,
	}
}

// Wrap wraps an existing error with API error context
func Wrap(err error, code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Predefined errors for common situations
var (
	// ErrNoData indicates the source sheet held no usable rows.
	ErrNoData = New("NO_DATA", "No data available in sheet", http.StatusInternalServerError)

	// ErrSheetUnavailable indicates the spreadsheet source could not be read.
	ErrSheetUnavailable = New("SHEET_UNAVAILABLE", "Spreadsheet source could not be read", http.StatusBadGateway)

	// ErrSheetNotFound indicates the requested tab does not exist in the workbook.
	ErrSheetNotFound = New("SHEET_NOT_FOUND", "Requested sheet tab not found", http.StatusNotFound)

	// ErrInvalidInput indicates invalid request parameters.
	ErrInvalidInput = New("INVALID_INPUT", "Invalid input provided", http.StatusBadRequest)

	// ErrInternal indicates an unexpected server error.
	ErrInternal = New("INTERNAL_ERROR", "An internal error occurred", http.StatusInternalServerError)

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = New("NOT_FOUND", "Resource not found", http.StatusNotFound)

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = New("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests)
)

// IsAPIError checks if an error is an APIError
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// GetAPIError extracts APIError from an error chain
func GetAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
