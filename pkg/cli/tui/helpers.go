package tui

import (
	"errors"

	"sitescrape-go/pkg/backend"
)

// renderLoadingState renders a standard loading message
func renderLoadingState(message string) string {
	return infoStyle.Render(message)
}

// handleListNavigation handles common navigation keys for list views (up/down/j/k)
// Returns the new selected index and whether navigation occurred
func handleListNavigation(key string, selected int, total int) (newSelected int, handled bool) {
	switch key {
	case "up", "k":
		if selected > 0 {
			return selected - 1, true
		}
		return selected, true
	case "down", "j":
		if selected < total-1 {
			return selected + 1, true
		}
		return selected, true
	}
	return selected, false
}

// handleBackKeys checks if a key should leave a read-only view
func handleBackKeys(key string) bool {
	switch key {
	case "esc", "q":
		return true
	}
	return false
}

// userFacingError converts structured backend errors into friendly messages,
// while leaving other error types unchanged.
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	var netErr *backend.NetworkError
	if errors.As(err, &netErr) {
		return errors.New(netErr.UserMessage())
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}

	return err
}
