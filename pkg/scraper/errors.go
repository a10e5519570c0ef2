package scraper

import (
	"errors"
	"fmt"
)

// ErrorType categorizes different types of scraper errors
type ErrorType string

const (
	ErrorTypePluginNotFound ErrorType = "plugin_not_found"
	ErrorTypeNoData         ErrorType = "no_data"
	ErrorTypeExtraction     ErrorType = "extraction"
	ErrorTypeCancelled      ErrorType = "cancelled"
)

// ScraperError represents a structured error from a plugin run
type ScraperError struct {
	Type    ErrorType
	Site    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ScraperError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *ScraperError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the message reported to API callers
func (e *ScraperError) UserMessage() string {
	switch e.Type {
	case ErrorTypePluginNotFound:
		return "Plugin not found for site: " + e.Site
	case ErrorTypeNoData:
		return "No data scraped."
	case ErrorTypeCancelled:
		return "Scraping was cancelled."
	default:
		return e.Message
	}
}

// UserMessage extracts a caller-facing message from any error.
func UserMessage(err error) string {
	var sErr *ScraperError
	if errors.As(err, &sErr) {
		return sErr.UserMessage()
	}
	return err.Error()
}

func newPluginNotFoundError(site string) *ScraperError {
	return &ScraperError{
		Type:    ErrorTypePluginNotFound,
		Site:    site,
		Message: "unknown plugin",
	}
}

func newNoDataError(site string) *ScraperError {
	return &ScraperError{
		Type:    ErrorTypeNoData,
		Site:    site,
		Message: "plugin returned no rows",
	}
}

func newCancelledError(site string, cause error) *ScraperError {
	return &ScraperError{
		Type:    ErrorTypeCancelled,
		Site:    site,
		Message: "Operation cancelled",
		Cause:   cause,
	}
}
