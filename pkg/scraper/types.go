package scraper

import "context"

// Table is the tabular output of one plugin run. The first row of the
// generated CSV is Headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Plugin scrapes one site. Limit is nil when the caller gave none.
type Plugin interface {
	Name() string
	Scrape(ctx context.Context, query string, limit *int, progress ProgressCallback) (Table, error)
}

// ScrapeStage represents the current stage of a scraping operation
type ScrapeStage string

const (
	StageLookup     ScrapeStage = "lookup"
	StageFetching   ScrapeStage = "fetching"
	StageExtracting ScrapeStage = "extracting"
	StageComplete   ScrapeStage = "complete"
)

// ProgressCallback is called to report progress during scraping operations
// stage: The current stage of the operation
// message: A human-readable message describing the current progress
type ProgressCallback func(stage ScrapeStage, message string)
