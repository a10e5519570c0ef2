package scrapeflow

import "time"

// Focus targets of the scrape form, cycled with Tab
const (
	FocusSite = iota
	FocusQuery
	FocusLimit
	focusCount
)

// NextFocus returns the focus target after f, wrapping around.
func NextFocus(f int) int {
	return (f + 1) % focusCount
}

// PrevFocus returns the focus target before f, wrapping around.
func PrevFocus(f int) int {
	return (f + focusCount - 1) % focusCount
}

// SavedNoticeDuration is how long the settings screen shows "Saved ✓".
const SavedNoticeDuration = 1200 * time.Millisecond

// DefaultWidth is the default terminal width fallback
const DefaultWidth = 80

// DefaultHeight is the default terminal height fallback
const DefaultHeight = 24
