package models

// PluginList is the set of site plugins the backend currently offers.
// It is rebuilt on every load and never persisted.
type PluginList struct {
	Names []string `json:"plugins"`
}

// Contains reports whether name is one of the listed plugins.
func (p PluginList) Contains(name string) bool {
	for _, n := range p.Names {
		if n == name {
			return true
		}
	}
	return false
}

// ScrapeRequest represents one submission to the backend.
// Limit is nil when the user gave no usable limit; the field is then omitted
// from the request body entirely.
type ScrapeRequest struct {
	Site  string `json:"site"`
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// ScrapeResult is the outcome of a scrape reported by the backend.
// Success selects which of the remaining fields are meaningful.
type ScrapeResult struct {
	Success bool

	// Success branch
	Count   int
	FileURL string // empty when no downloadable artifact exists yet
	File    string // backend-relative path, e.g. static/foo.csv

	// Failure branch
	Message string
}

// TablePreview holds the first rows of a generated file.
type TablePreview struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}
