package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sitescrape-go/pkg/backend"
	"sitescrape-go/pkg/cli/tui/scrapeflow"
	"sitescrape-go/pkg/models"
	"sitescrape-go/pkg/workflow"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	backend string
	saves   int
}

func (s *fakeStore) Backend(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == "" {
		return backend.DefaultBaseURL, nil
	}
	return s.backend, nil
}

func (s *fakeStore) SaveBackend(ctx context.Context, raw string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	normalized := backend.NormalizeBaseURL(raw)
	if normalized == "" {
		return "", false, nil
	}
	s.backend = normalized
	s.saves++
	return normalized, true, nil
}

type fakeBackend struct {
	mu        sync.Mutex
	plugins   []string
	result    models.ScrapeResult
	submitErr error
	submits   []models.ScrapeRequest
}

func (b *fakeBackend) ListPlugins(ctx context.Context, baseURL string) (models.PluginList, error) {
	return models.PluginList{Names: b.plugins}, nil
}

func (b *fakeBackend) SubmitScrape(ctx context.Context, baseURL string, req models.ScrapeRequest) (models.ScrapeResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submits = append(b.submits, req)
	return b.result, b.submitErr
}

type fakeFiles struct {
	downloaded []string
	preview    models.TablePreview
	err        error
}

func (f *fakeFiles) Download(ctx context.Context, fileURL, destDir string) (string, error) {
	f.downloaded = append(f.downloaded, fileURL)
	return destDir + "/out.csv", f.err
}

func (f *fakeFiles) Preview(ctx context.Context, baseURL, file string) (models.TablePreview, error) {
	return f.preview, f.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runFirst executes cmd and returns its message. For a batch only the first
// command runs; flows put their work first and the spinner tick second.
func runFirst(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.NotEmpty(t, batch)
		return batch[0]()
	}
	return msg
}

func newTestForm(t *testing.T, b *fakeBackend, files *fakeFiles) (*scrapeForm, *workflow.Controller) {
	t.Helper()
	if b.plugins == nil {
		b.plugins = []string{"google_maps", "indiamart"}
	}
	ctrl := workflow.NewController(&fakeStore{}, b)
	form := newScrapeForm(Deps{Controller: ctrl, Client: files, DownloadDir: "downloads", PreviewRows: 10})

	form.Update(runFirst(t, form.Init()))
	require.Equal(t, workflow.Ready, ctrl.State().Kind)
	return form, ctrl
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		state workflow.State
		want  string
	}{
		{workflow.State{Kind: workflow.Idle}, ""},
		{workflow.State{Kind: workflow.LoadingPlugins}, "Loading plugins..."},
		{workflow.State{Kind: workflow.Ready}, ""},
		{workflow.State{Kind: workflow.Submitting}, "Running… this can take a bit."},
		{workflow.State{Kind: workflow.Succeeded, Count: 5}, "Done. 5 rows."},
		{workflow.State{Kind: workflow.Failed, Message: "Error: nope"}, "Error: nope"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusLine(tt.state), tt.state.Kind.String())
		assert.Equal(t, statusLine(tt.state), statusLine(tt.state), "rendering must be pure")
	}
}

func TestScrapeForm_LoadsPlugins(t *testing.T) {
	form, ctrl := newTestForm(t, &fakeBackend{}, &fakeFiles{})

	view := form.View()
	assert.Contains(t, view, "google_maps")
	assert.Contains(t, view, "indiamart")
	assert.Contains(t, view, "Backend: http://localhost:10000")

	form.Update(key("down"))
	assert.Equal(t, "indiamart", ctrl.State().Selected)
}

func TestScrapeForm_ValidationStaysLocal(t *testing.T) {
	b := &fakeBackend{}
	form, ctrl := newTestForm(t, b, &fakeFiles{})

	_, cmd := form.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, form.View(), "Please choose a site and enter a query.")
	assert.Empty(t, b.submits)
	assert.Equal(t, workflow.Ready, ctrl.State().Kind)
}

func TestScrapeForm_SuccessWithoutDownload(t *testing.T) {
	b := &fakeBackend{result: models.ScrapeResult{Success: true, Count: 5}}
	form, _ := newTestForm(t, b, &fakeFiles{})

	form.queryInput.SetValue("coffee")
	_, cmd := form.Update(key("enter"))
	form.Update(runFirst(t, cmd))

	view := form.View()
	assert.Contains(t, view, "Done. 5 rows.")
	assert.NotContains(t, view, "Download CSV")
	require.Len(t, b.submits, 1)
	assert.Equal(t, models.ScrapeRequest{Site: "google_maps", Query: "coffee"}, b.submits[0])

	_, cmd = form.Update(key("d"))
	assert.Nil(t, cmd, "nothing to download without a file url")
}

func TestScrapeForm_SuccessDownloadAndPreview(t *testing.T) {
	b := &fakeBackend{result: models.ScrapeResult{
		Success: true,
		Count:   2,
		FileURL: "http://localhost:10000/static/coffee.csv",
		File:    "static/coffee.csv",
	}}
	files := &fakeFiles{preview: models.TablePreview{
		Headers: []string{"Name", "Rating"},
		Rows:    [][]string{{"Blue Tokai", "4.5"}, {"Third Wave", "4.2"}},
	}}
	form, _ := newTestForm(t, b, files)

	form.queryInput.SetValue("coffee")
	form.limitInput.SetValue("2")
	_, cmd := form.Update(key("enter"))
	form.Update(runFirst(t, cmd))

	view := form.View()
	assert.Contains(t, view, "Download CSV: ")
	assert.Contains(t, view, "http://localhost:10000/static/coffee.csv")
	require.NotNil(t, b.submits[0].Limit)
	assert.Equal(t, 2, *b.submits[0].Limit)

	_, cmd = form.Update(key("d"))
	form.Update(runFirst(t, cmd))
	assert.Equal(t, []string{"http://localhost:10000/static/coffee.csv"}, files.downloaded)
	assert.Contains(t, form.View(), "Saved to downloads/out.csv")

	_, cmd = form.Update(key("p"))
	form.Update(runFirst(t, cmd))
	require.NotNil(t, form.preview)
	assert.Contains(t, form.View(), "Blue Tokai")

	_, cmd = form.Update(key("esc"))
	form.Update(runFirst(t, cmd))
	assert.Nil(t, form.preview)
	assert.Contains(t, form.View(), "Done. 2 rows.")
}

func TestScrapeForm_Failures(t *testing.T) {
	b := &fakeBackend{result: models.ScrapeResult{Success: false, Message: "No data scraped."}}
	form, ctrl := newTestForm(t, b, &fakeFiles{})

	form.queryInput.SetValue("coffee")
	_, cmd := form.Update(key("enter"))
	form.Update(runFirst(t, cmd))
	assert.Contains(t, form.View(), "Error: No data scraped.")

	b.submitErr = errors.New("connection refused")
	_, cmd = form.Update(key("enter"))
	form.Update(runFirst(t, cmd))
	assert.Contains(t, form.View(), "Request failed: connection refused")
	assert.False(t, ctrl.Busy())
}

func TestScrapeForm_ShortcutsTypeIntoInputs(t *testing.T) {
	form, _ := newTestForm(t, &fakeBackend{}, &fakeFiles{})

	form.Update(key("tab"))
	require.Equal(t, scrapeflow.FocusQuery, form.focus)
	for _, r := range []string{"d", "r", "s", "p"} {
		form.Update(key(r))
	}
	assert.Equal(t, "drsp", form.queryInput.Value())
	assert.Nil(t, form.preview)
	assert.Empty(t, form.notice)
}

func TestScrapeForm_SettingsShortcut(t *testing.T) {
	form, _ := newTestForm(t, &fakeBackend{}, &fakeFiles{})

	_, cmd := form.Update(key("s"))
	require.NotNil(t, cmd)
	assert.IsType(t, scrapeflow.OpenSettingsMsg{}, cmd())
}
