package format

import (
	"fmt"
	"io"
	"strings"

	"sitescrape-go/pkg/models"
	"sitescrape-go/pkg/workflow"

	"github.com/jedib0t/go-pretty/v6/table"
)

// maxCellWidth keeps long URLs from blowing up the table width.
const maxCellWidth = 60

// NewTable returns a rounded table that renders to out.
func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// Plugins renders the plugin list.
func Plugins(out io.Writer, baseURL string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(out, "No plugins available at %s.\n", baseURL)
		return
	}

	t := NewTable(out)
	t.SetTitle("Plugins at " + baseURL)
	t.AppendHeader(table.Row{"#", "Site"})
	for i, name := range names {
		t.AppendRow(table.Row{i + 1, name})
	}
	t.Render()
}

// Preview renders up to maxRows rows of a generated file.
func Preview(out io.Writer, preview models.TablePreview, maxRows int) {
	if len(preview.Headers) == 0 {
		fmt.Fprintln(out, "File is empty.")
		return
	}

	t := NewTable(out)
	header := make(table.Row, len(preview.Headers))
	for i, h := range preview.Headers {
		header[i] = h
	}
	t.AppendHeader(header)

	rows := preview.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = Truncate(cell, maxCellWidth)
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d rows", len(rows), len(preview.Rows))})
	t.Render()
}

// Result renders the final workflow state of a scrape.
func Result(out io.Writer, state workflow.State) {
	switch state.Kind {
	case workflow.Succeeded:
		fmt.Fprintf(out, "✓ Done. %d rows.\n", state.Count)
		if state.HasDownload() {
			fmt.Fprintf(out, "  Download CSV: %s\n", state.FileURL)
		}
		if state.File != "" {
			fmt.Fprintf(out, "  File: %s\n", state.File)
		}
	case workflow.Failed:
		fmt.Fprintf(out, "✗ %s\n", state.Message)
	default:
		fmt.Fprintf(out, "%s\n", state.Kind)
	}
}

// Truncate shortens s to maxLen runes, ending with "...".
func Truncate(s string, maxLen int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= maxLen || maxLen < 4 {
		return string(runes)
	}
	return string(runes[:maxLen-3]) + "..."
}
