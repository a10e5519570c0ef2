package workflow

import (
	"math"
	"strconv"
	"strings"

	"sitescrape-go/pkg/models"
)

// Input is the raw form data of one submission.
type Input struct {
	Site  string
	Query string
	Limit string
}

// ValidationError is a local, pre-flight rejection. It never reaches the network.
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks in against the currently loaded plugin list and builds a
// fresh ScrapeRequest. It does not change the workflow state.
func (c *Controller) Validate(in Input) (models.ScrapeRequest, error) {
	c.mu.Lock()
	plugins := models.PluginList{Names: c.state.Plugins}
	c.mu.Unlock()

	site := strings.TrimSpace(in.Site)
	query := strings.TrimSpace(in.Query)
	if site == "" || query == "" || !plugins.Contains(site) {
		return models.ScrapeRequest{}, &ValidationError{Message: ValidationMessage}
	}

	return models.ScrapeRequest{
		Site:  site,
		Query: query,
		Limit: parseLimit(in.Limit),
	}, nil
}

// parseLimit reads a leading integer the way a lenient form field does:
// "25", " 25 rows" and "25.9" all give 25. Anything without leading digits,
// out of range or not positive means "no limit".
func parseLimit(raw string) *int {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return nil
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n <= 0 || n > math.MaxInt32 {
		return nil
	}
	limit := int(n)
	return &limit
}
