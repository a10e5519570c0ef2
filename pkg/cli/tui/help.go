package tui

import (
	"fmt"
	"strings"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// RootMenuHelpContent returns help for root menu
func RootMenuHelpContent() string {
	items := []HelpItem{
		{"1 / 2", "Open Scrape / Settings"},
		{"?", "Toggle this help"},
		{"q / Esc", "Quit"},
		{"Ctrl+C", "Force quit"},
	}
	return renderHelpItems(items)
}

// ScrapeFormHelpContent returns help for the scrape form
func ScrapeFormHelpContent() string {
	items := []HelpItem{
		{"Tab / Shift+Tab", "Move between site, query and limit"},
		{"↑ / ↓ / j / k", "Choose site (site field)"},
		{"Enter", "Run scrape"},
		{"d", "Download CSV (site field, after success)"},
		{"p", "Preview rows (site field, after success)"},
		{"r", "Reload plugins (site field)"},
		{"s", "Open settings (site field)"},
		{"Esc", "Back to menu"},
	}
	return renderHelpItems(items)
}

// SettingsHelpContent returns help for the settings form
func SettingsHelpContent() string {
	items := []HelpItem{
		{"Enter", "Save backend URL"},
		{"Esc", "Back"},
	}
	return renderHelpItems(items)
}

// PreviewHelpContent returns the one-line hint under the preview table
func PreviewHelpContent() string {
	return "↑/↓ PgUp/PgDn: scroll • Esc/q: back"
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary)
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
