package scraper

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultRows is the number of rows a sample plugin produces without a limit.
const DefaultRows = 5

// maxRows caps sample output so a large limit cannot exhaust memory.
const maxRows = 500

// Registry maps site names to plugins, in registration order.
type Registry struct {
	names   []string
	plugins map[string]Plugin
}

// NewRegistry builds a registry. A later plugin with a duplicate name
// replaces the earlier one but keeps its position.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{plugins: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		if _, exists := r.plugins[p.Name()]; !exists {
			r.names = append(r.names, p.Name())
		}
		r.plugins[p.Name()] = p
	}
	return r
}

// Names returns the registered site names.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Run executes the plugin for site. Unknown sites, cancelled contexts and
// empty results are reported as *ScraperError.
func (r *Registry) Run(ctx context.Context, site, query string, limit *int, progress ProgressCallback) (Table, error) {
	if progress == nil {
		progress = func(ScrapeStage, string) {}
	}

	progress(StageLookup, fmt.Sprintf("looking up plugin %q", site))
	plugin, ok := r.plugins[site]
	if !ok {
		return Table{}, newPluginNotFoundError(site)
	}

	if err := ctx.Err(); err != nil {
		return Table{}, newCancelledError(site, err)
	}

	table, err := plugin.Scrape(ctx, query, limit, progress)
	if err != nil {
		if ctx.Err() != nil {
			return Table{}, newCancelledError(site, err)
		}
		return Table{}, &ScraperError{Type: ErrorTypeExtraction, Site: site, Message: err.Error(), Cause: err}
	}
	if len(table.Rows) == 0 {
		return Table{}, newNoDataError(site)
	}

	progress(StageComplete, fmt.Sprintf("%s returned %d rows", site, len(table.Rows)))
	return table, nil
}

// SamplePlugin produces canned rows shaped like a real site's export.
type SamplePlugin struct {
	name    string
	headers []string
	row     func(query string, i int) []string
}

// NewSamplePlugin returns the canned plugin for name. Names without a
// dedicated layout get a generic two-column table.
func NewSamplePlugin(name string) *SamplePlugin {
	p := &SamplePlugin{name: name}
	switch name {
	case "google_maps":
		p.headers = []string{"Name", "URL", "Address", "Rating"}
		p.row = func(q string, i int) []string {
			return []string{
				fmt.Sprintf("%s #%d", titleCase(q), i),
				fmt.Sprintf("https://www.google.com/maps/place/%s-%d", slug(q), i),
				fmt.Sprintf("%d Market Street", 10+i),
				fmt.Sprintf("%.1f", 3.5+float64(i%15)/10),
			}
		}
	case "indiamart":
		p.headers = []string{"Company Name", "Location", "Phone", "URL"}
		p.row = func(q string, i int) []string {
			return []string{
				fmt.Sprintf("%s Traders %d", titleCase(q), i),
				[]string{"Mumbai", "Delhi", "Chennai", "Pune"}[i%4],
				fmt.Sprintf("+91 98%08d", i),
				fmt.Sprintf("https://www.indiamart.com/%s-%d/", slug(q), i),
			}
		}
	default:
		p.headers = []string{"ColA", "ColB"}
		p.row = func(q string, i int) []string {
			return []string{q, fmt.Sprintf("%d", i)}
		}
	}
	return p
}

// SamplePlugins builds one sample plugin per name.
func SamplePlugins(names []string) []Plugin {
	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		plugins = append(plugins, NewSamplePlugin(name))
	}
	return plugins
}

func (p *SamplePlugin) Name() string {
	return p.name
}

func (p *SamplePlugin) Scrape(ctx context.Context, query string, limit *int, progress ProgressCallback) (Table, error) {
	n := DefaultRows
	if limit != nil && *limit > 0 {
		n = *limit
	}
	if n > maxRows {
		n = maxRows
	}

	progress(StageFetching, fmt.Sprintf("%s: searching for %q", p.name, query))
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}
		rows = append(rows, p.row(query, i))
	}
	progress(StageExtracting, fmt.Sprintf("%s: extracted %d rows", p.name, len(rows)))

	headers := make([]string, len(p.headers))
	copy(headers, p.headers)
	return Table{Headers: headers, Rows: rows}, nil
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
