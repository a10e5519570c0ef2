package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sitescrape-go/pkg/backend"
	"sitescrape-go/pkg/cli/format"
	"sitescrape-go/pkg/cli/tui"
	"sitescrape-go/pkg/config"
	"sitescrape-go/pkg/workflow"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"
)

type App struct {
	store  *config.Store
	cfg    *config.Config
	client *backend.Client
	out    io.Writer
}

func NewApp(store *config.Store, cfg *config.Config) *App {
	return &App{
		store: store,
		cfg:   cfg,
		out:   os.Stdout,
	}
}

// SetOutput redirects command output, mainly for tests.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// getClient returns the backend client, creating it if necessary
func (a *App) getClient() *backend.Client {
	if a.client == nil {
		a.client = backend.NewClient(backend.Options{Timeout: a.cfg.RequestTimeout()})
	}
	return a.client
}

// newController builds a workflow controller over the app's store and client.
func (a *App) newController() *workflow.Controller {
	return workflow.NewController(a.store, a.getClient())
}

// baseURL reads the backend from the store so a value saved in another
// session is picked up.
func (a *App) baseURL(ctx context.Context) (string, error) {
	raw, err := a.store.Backend(ctx)
	if err != nil {
		return "", err
	}
	if u := backend.NormalizeBaseURL(raw); u != "" {
		return u, nil
	}
	return backend.DefaultBaseURL, nil
}

// ShowConfig displays the current configuration
func (a *App) ShowConfig() error {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintf(a.out, "# %s\n", a.store.Path())
	fmt.Fprint(a.out, string(data))
	return nil
}

// SetConfig sets a configuration value
// Format: key=value (e.g., "cli.request_timeout=30" or "backend=http://...")
func (a *App) SetConfig(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	if err := a.cfg.SetValue(strings.TrimSpace(parts[0]), parts[1]); err != nil {
		return err
	}
	return a.store.Save(a.cfg)
}

// SetBackend saves the backend URL the same way the settings screen does:
// trailing slashes are stripped and an empty value leaves the setting alone.
func (a *App) SetBackend(ctx context.Context, raw string) error {
	normalized, saved, err := a.store.SaveBackend(ctx, raw)
	if err != nil {
		return err
	}
	if !saved {
		fmt.Fprintln(a.out, "Backend URL is empty; setting unchanged.")
		return nil
	}
	a.cfg.Backend = normalized
	fmt.Fprintf(a.out, "✓ Backend set to %s\n", normalized)
	return nil
}

// Run starts the interactive TUI
func (a *App) Run(ctx context.Context) error {
	model := tui.NewRootModel(tui.Deps{
		Controller:  a.newController(),
		Client:      a.getClient(),
		Store:       a.store,
		DownloadDir: a.cfg.CLI.DownloadDir,
		PreviewRows: a.cfg.CLI.PreviewRows,
	})
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// ListPlugins prints the plugins offered by the configured backend
func (a *App) ListPlugins(ctx context.Context) error {
	baseURL, err := a.baseURL(ctx)
	if err != nil {
		return err
	}

	list, err := a.getClient().ListPlugins(ctx, baseURL)
	if err != nil {
		return userError(err)
	}
	format.Plugins(a.out, baseURL, list.Names)
	return nil
}

// Preview prints the first rows of a generated file
func (a *App) Preview(ctx context.Context, file string) error {
	baseURL, err := a.baseURL(ctx)
	if err != nil {
		return err
	}

	preview, err := a.getClient().Preview(ctx, baseURL, file)
	if err != nil {
		return userError(err)
	}
	format.Preview(a.out, preview, a.cfg.CLI.PreviewRows)
	return nil
}

// Logs prints the backend's buffered debug log
func (a *App) Logs(ctx context.Context) error {
	baseURL, err := a.baseURL(ctx)
	if err != nil {
		return err
	}

	text, err := a.getClient().DebugLogs(ctx, baseURL)
	if err != nil {
		return userError(err)
	}
	if text == "" {
		fmt.Fprintln(a.out, "No new backend logs.")
		return nil
	}
	for _, line := range strings.Split(text, " || ") {
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// userError swaps a network error for its user-facing message.
func userError(err error) error {
	var netErr *backend.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s", netErr.UserMessage())
	}
	return err
}
