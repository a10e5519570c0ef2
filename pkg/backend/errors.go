package backend

import (
	"errors"
	"fmt"
)

// ErrorType categorizes failures that happen below the business layer.
type ErrorType string

const (
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeInvalidResponse ErrorType = "invalid_response"
)

// NetworkError is returned when the transport call fails or the backend answer
// cannot be parsed. It is never a business outcome: a backend that reports
// success=false yields a models.ScrapeResult, not a NetworkError.
type NetworkError struct {
	Type    ErrorType
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Op, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Detail returns the short description shown after "Request failed: ".
func (e *NetworkError) Detail() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// UserMessage returns a user-friendly error message
func (e *NetworkError) UserMessage() string {
	switch e.Type {
	case ErrorTypeNetwork:
		return "Could not reach the backend. Check the backend URL in Settings."
	case ErrorTypeInvalidResponse:
		return "The backend returned a response that could not be read."
	default:
		return e.Message
	}
}

// APIError represents a non-2xx answer from an auxiliary endpoint
// (file download, preview, debug logs).
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// IsNetwork checks if an error is a NetworkError
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsAPI checks if an error is an APIError
func IsAPI(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func newNetworkError(op string, cause error) *NetworkError {
	return &NetworkError{
		Type:    ErrorTypeNetwork,
		Op:      op,
		Message: "request failed",
		Cause:   cause,
	}
}

func newInvalidResponseError(op string, cause error) *NetworkError {
	return &NetworkError{
		Type:    ErrorTypeInvalidResponse,
		Op:      op,
		Message: "response is not valid JSON",
		Cause:   cause,
	}
}
