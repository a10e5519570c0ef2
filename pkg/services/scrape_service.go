package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/models"
	"sitescrape-go/pkg/scraper"
)

// maxLogLines is how many buffered log lines a debug-log read returns.
const maxLogLines = 50

// ScrapeOutput describes a generated result file.
type ScrapeOutput struct {
	File  string // bare file name, e.g. coffee_google_maps_010125_120000.csv
	Count int
}

// ScrapeService runs plugins and keeps their output for download.
type ScrapeService struct {
	registry *scraper.Registry
	files    *fileStore
	now      func() time.Time

	mu   sync.Mutex
	logs []string
}

// NewScrapeService creates a new scrape service
func NewScrapeService(registry *scraper.Registry) *ScrapeService {
	return &ScrapeService{
		registry: registry,
		files:    newFileStore(FileTTL),
		now:      time.Now,
	}
}

// Plugins lists the available site plugins.
func (s *ScrapeService) Plugins() []string {
	return s.registry.Names()
}

// Scrape runs the plugin for site and stores the CSV it produces.
func (s *ScrapeService) Scrape(ctx context.Context, req models.ScrapeRequest) (ScrapeOutput, error) {
	site := strings.TrimSpace(req.Site)
	query := strings.TrimSpace(req.Query)
	if site == "" || query == "" {
		return ScrapeOutput{}, fmt.Errorf("site and query are required")
	}

	s.appendLog(fmt.Sprintf("scrape requested: site=%s query=%q", site, query))
	table, err := s.registry.Run(ctx, site, query, req.Limit, func(stage scraper.ScrapeStage, message string) {
		s.appendLog(fmt.Sprintf("[%s] %s", stage, message))
	})
	if err != nil {
		s.appendLog("scrape failed: " + scraper.UserMessage(err))
		return ScrapeOutput{}, err
	}

	name := s.fileName(site, query)
	if err := s.files.put(name, table); err != nil {
		return ScrapeOutput{}, fmt.Errorf("failed to store output: %w", err)
	}
	s.appendLog(fmt.Sprintf("saved %d rows to static/%s", len(table.Rows), name))

	return ScrapeOutput{File: name, Count: len(table.Rows)}, nil
}

// File returns the raw CSV for name.
func (s *ScrapeService) File(name string) ([]byte, error) {
	return s.files.get(name)
}

// Table returns the parsed contents of name.
func (s *ScrapeService) Table(name string) (models.TablePreview, error) {
	return s.files.table(name)
}

// DrainLogs returns the most recent log lines joined with " || " and
// clears the buffer.
func (s *ScrapeService) DrainLogs() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.logs
	if len(lines) > maxLogLines {
		lines = lines[len(lines)-maxLogLines:]
	}
	text := strings.Join(lines, " || ")
	s.logs = nil
	return text
}

// appendLog buffers line for the debug-log endpoint and mirrors it to the
// process log.
func (s *ScrapeService) appendLog(line string) {
	logger.Debug("scrape service: %s", line)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, s.now().Format("2006-01-02 15:04:05")+" - "+line)
}

func (s *ScrapeService) fileName(site, query string) string {
	safe := strings.ReplaceAll(strings.ToLower(query), " ", "_")
	safe = strings.NewReplacer("/", "_", "\\", "_").Replace(safe)
	return fmt.Sprintf("%s_%s_%s.csv", safe, site, s.now().Format("020106_150405"))
}
