package cli

import (
	"context"
	"errors"
	"fmt"

	"sitescrape-go/pkg/cli/format"
	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/workflow"
)

// ScrapeOptions holds the flags of a non-interactive scrape
type ScrapeOptions struct {
	Site     string
	Query    string
	Limit    string
	Download bool
}

// RunScrape drives the same workflow as the TUI without a terminal UI.
// It returns an error whenever the workflow ends in Failed.
func (a *App) RunScrape(ctx context.Context, opts ScrapeOptions) error {
	ctrl := a.newController()

	fmt.Fprint(a.out, "⏳ Loading plugins... ")
	if err := ctrl.Initialize(ctx); err != nil {
		return err
	}
	if state := ctrl.State(); state.Kind == workflow.Failed {
		fmt.Fprintln(a.out, "✗")
		return errors.New(state.Message)
	}
	fmt.Fprintln(a.out, "✓")

	fmt.Fprintf(a.out, "⏳ Running %s for %q… this can take a bit.\n", opts.Site, opts.Query)
	err := ctrl.Run(ctx, workflow.Input{Site: opts.Site, Query: opts.Query, Limit: opts.Limit})
	var vErr *workflow.ValidationError
	if errors.As(err, &vErr) {
		return fmt.Errorf("%s Available sites: %v", vErr.Message, ctrl.State().Plugins)
	}
	if err != nil {
		return err
	}

	state := ctrl.State()
	format.Result(a.out, state)
	if state.Kind == workflow.Failed {
		return errors.New(state.Message)
	}

	if opts.Download {
		if !state.HasDownload() {
			fmt.Fprintln(a.out, "No download link was returned; nothing to download.")
			return nil
		}
		path, err := a.getClient().Download(ctx, state.FileURL, a.cfg.CLI.DownloadDir)
		if err != nil {
			logger.LogError(err, "scrape: download of %s failed", state.FileURL)
			return fmt.Errorf("download failed: %w", userError(err))
		}
		fmt.Fprintf(a.out, "✓ Saved to %s\n", path)
	}
	return nil
}
