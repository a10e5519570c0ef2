package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/cli/tui/scrapeflow"
	"sitescrape-go/pkg/models"
	"sitescrape-go/pkg/workflow"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FileClient fetches generated files from the backend.
type FileClient interface {
	Download(ctx context.Context, fileURL, destDir string) (string, error)
	Preview(ctx context.Context, baseURL, file string) (models.TablePreview, error)
}

// scrapeForm is the main scrape surface: a site picker, query and limit
// inputs, and a status area that is a projection of the workflow state.
type scrapeForm struct {
	ctx         context.Context
	ctrl        *workflow.Controller
	files       FileClient
	downloadDir string
	previewRows int

	focus      int
	queryInput textinput.Model
	limitInput textinput.Model
	spinner    spinner.Model

	validation string // local, pre-flight message
	notice     string // outcome of the last download/preview action
	noticeErr  bool

	preview *previewModel
	width   int
	height  int
}

// newScrapeForm creates the scrape form. Plugins are loaded by Init.
func newScrapeForm(deps Deps) *scrapeForm {
	query := textinput.New()
	query.Placeholder = "e.g. coffee shops in Pune"
	query.CharLimit = 256
	query.Width = 50

	limit := textinput.New()
	limit.Placeholder = "optional"
	limit.CharLimit = 10
	limit.Width = 10

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle

	return &scrapeForm{
		ctx:         deps.context(),
		ctrl:        deps.Controller,
		files:       deps.Client,
		downloadDir: deps.DownloadDir,
		previewRows: deps.PreviewRows,
		focus:       scrapeflow.FocusSite,
		queryInput:  query,
		limitInput:  limit,
		spinner:     sp,
		width:       scrapeflow.DefaultWidth,
		height:      scrapeflow.DefaultHeight,
	}
}

func (m *scrapeForm) Init() tea.Cmd {
	return m.reload()
}

func (m *scrapeForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.preview != nil {
		if _, ok := msg.(scrapeflow.ClosePreviewMsg); ok {
			m.preview = nil
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scrapeflow.InitDoneMsg:
		if msg.Err != nil {
			logger.Debug("scrape form: reload rejected: %v", msg.Err)
		}
		return m, nil

	case scrapeflow.SubmitDoneMsg:
		if msg.Err != nil {
			logger.Debug("scrape form: submit rejected: %v", msg.Err)
		}
		return m, nil

	case scrapeflow.DownloadDoneMsg:
		if msg.Err != nil {
			m.setNotice("Download failed: "+userFacingError(msg.Err).Error(), true)
		} else {
			m.setNotice("Saved to "+msg.Path, false)
		}
		return m, nil

	case scrapeflow.PreviewLoadedMsg:
		if msg.Err != nil {
			m.setNotice("Preview failed: "+userFacingError(msg.Err).Error(), true)
			return m, nil
		}
		m.preview = newPreviewModel(msg.File, msg.Preview, m.previewRows, m.width, m.height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInput(msg)
}

func (m *scrapeForm) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	state := m.ctrl.State()

	switch key {
	case "esc":
		return m, func() tea.Msg { return scrapeflow.BackToMenuMsg{} }
	case "tab":
		return m, m.setFocus(scrapeflow.NextFocus(m.focus))
	case "shift+tab":
		return m, m.setFocus(scrapeflow.PrevFocus(m.focus))
	case "enter":
		return m, m.submit()
	}

	// Single-letter shortcuts only apply while the site picker has focus so
	// they can still be typed into the text inputs.
	if m.focus == scrapeflow.FocusSite {
		if idx, handled := handleListNavigation(key, selectedIndex(state), len(state.Plugins)); handled {
			if idx >= 0 && idx < len(state.Plugins) && !state.Busy() {
				m.ctrl.Select(state.Plugins[idx])
			}
			return m, nil
		}

		switch key {
		case "r":
			return m, m.reload()
		case "s":
			return m, func() tea.Msg { return scrapeflow.OpenSettingsMsg{} }
		case "d":
			if state.HasDownload() {
				m.setNotice("Downloading...", false)
				return m, m.download(state.FileURL)
			}
			return m, nil
		case "p":
			if state.Kind == workflow.Succeeded && state.File != "" {
				m.setNotice("Loading preview...", false)
				return m, m.loadPreview(state.BaseURL, state.File)
			}
			return m, nil
		}
	}

	return m.updateInput(msg)
}

func (m *scrapeForm) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case scrapeflow.FocusQuery:
		m.queryInput, cmd = m.queryInput.Update(msg)
	case scrapeflow.FocusLimit:
		m.limitInput, cmd = m.limitInput.Update(msg)
	}
	return m, cmd
}

func (m *scrapeForm) setFocus(f int) tea.Cmd {
	m.focus = f
	m.queryInput.Blur()
	m.limitInput.Blur()
	switch f {
	case scrapeflow.FocusQuery:
		return m.queryInput.Focus()
	case scrapeflow.FocusLimit:
		return m.limitInput.Focus()
	}
	return nil
}

func (m *scrapeForm) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// reload starts a plugin load unless an operation is already running.
func (m *scrapeForm) reload() tea.Cmd {
	if m.ctrl.Busy() {
		return nil
	}
	m.validation = ""
	m.notice = ""
	return tea.Batch(m.initCmd(), m.spinner.Tick)
}

// submit validates the form and starts the scrape. Validation failures stay
// local and never reach the network.
func (m *scrapeForm) submit() tea.Cmd {
	state := m.ctrl.State()
	if state.Busy() {
		return nil
	}

	req, err := m.ctrl.Validate(workflow.Input{
		Site:  state.Selected,
		Query: m.queryInput.Value(),
		Limit: m.limitInput.Value(),
	})
	if err != nil {
		m.validation = err.Error()
		var vErr *workflow.ValidationError
		if errors.As(err, &vErr) {
			m.validation = vErr.Message
		}
		return nil
	}

	m.validation = ""
	m.notice = ""
	return tea.Batch(m.submitCmd(req), m.spinner.Tick)
}

func (m *scrapeForm) initCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return scrapeflow.InitDoneMsg{Err: ctrl.Initialize(ctx)}
	}
}

func (m *scrapeForm) submitCmd(req models.ScrapeRequest) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return scrapeflow.SubmitDoneMsg{Err: ctrl.Submit(ctx, req)}
	}
}

func (m *scrapeForm) download(fileURL string) tea.Cmd {
	files, ctx, dir := m.files, m.ctx, m.downloadDir
	return func() tea.Msg {
		path, err := files.Download(ctx, fileURL, dir)
		return scrapeflow.DownloadDoneMsg{Path: path, Err: err}
	}
}

func (m *scrapeForm) loadPreview(baseURL, file string) tea.Cmd {
	files, ctx := m.files, m.ctx
	return func() tea.Msg {
		preview, err := files.Preview(ctx, baseURL, file)
		return scrapeflow.PreviewLoadedMsg{File: file, Preview: preview, Err: err}
	}
}

func (m *scrapeForm) View() string {
	if m.preview != nil {
		return m.preview.View()
	}

	state := m.ctrl.State()
	var b strings.Builder

	b.WriteString(renderTitle("Site Scrape"))
	if state.BaseURL != "" {
		b.WriteString(mutedStyle.Render("Backend: "+state.BaseURL) + "\n")
	}
	b.WriteString(renderDivider(60) + "\n\n")

	b.WriteString(m.label("Site", scrapeflow.FocusSite) + "\n")
	b.WriteString(renderSitePicker(state))
	b.WriteString("\n")
	b.WriteString(m.label("Query", scrapeflow.FocusQuery) + "\n")
	b.WriteString(m.queryInput.View() + "\n\n")
	b.WriteString(m.label("Limit", scrapeflow.FocusLimit) + "\n")
	b.WriteString(m.limitInput.View() + "\n\n")

	if m.validation != "" {
		b.WriteString(renderWarning(m.validation) + "\n")
	}

	if status := statusLine(state); status != "" {
		if state.Busy() {
			b.WriteString(m.spinner.View() + " ")
		}
		b.WriteString(renderStatus(state, status) + "\n")
	}
	if state.HasDownload() {
		b.WriteString("Download CSV: " + urlStyle.Render(state.FileURL) + "\n")
	}
	if m.notice != "" {
		if m.noticeErr {
			b.WriteString(renderError(m.notice) + "\n")
		} else {
			b.WriteString(infoStyle.Render(m.notice) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render(scrapeFormHint(state)) + "\n")
	return b.String()
}

func (m *scrapeForm) label(text string, target int) string {
	if m.focus == target {
		return focusedLabelStyle.Render("› " + text)
	}
	return fieldLabelStyle.Render("  " + text)
}

// statusLine is the text of the status area for state. It holds no state of
// its own: the same State always renders the same line.
func statusLine(state workflow.State) string {
	switch state.Kind {
	case workflow.LoadingPlugins:
		return "Loading plugins..."
	case workflow.Submitting:
		return "Running… this can take a bit."
	case workflow.Succeeded:
		return fmt.Sprintf("Done. %d rows.", state.Count)
	case workflow.Failed:
		return state.Message
	}
	return ""
}

func renderStatus(state workflow.State, text string) string {
	switch state.Kind {
	case workflow.Succeeded:
		return renderSuccess(text)
	case workflow.Failed:
		return renderError(text)
	}
	return renderLoadingState(text)
}

func renderSitePicker(state workflow.State) string {
	if state.Kind == workflow.Idle || (state.Kind == workflow.LoadingPlugins && len(state.Plugins) == 0) {
		return "  " + mutedStyle.Render("(loading)") + "\n"
	}
	if len(state.Plugins) == 0 {
		return "  " + mutedStyle.Render("(no plugins available)") + "\n"
	}

	var b strings.Builder
	for _, name := range state.Plugins {
		if name == state.Selected {
			b.WriteString(selectedMarkerStyle.Render("→ ") + selectedStyle.Render(name) + "\n")
		} else {
			b.WriteString("  " + name + "\n")
		}
	}
	return b.String()
}

func selectedIndex(state workflow.State) int {
	for i, name := range state.Plugins {
		if name == state.Selected {
			return i
		}
	}
	return 0
}

func scrapeFormHint(state workflow.State) string {
	hint := "Tab: next field • Enter: run • r: reload • s: settings • Esc: menu"
	if state.HasDownload() {
		hint += " • d: download"
	}
	if state.Kind == workflow.Succeeded && state.File != "" {
		hint += " • p: preview"
	}
	return hint
}
