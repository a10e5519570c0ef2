package tui

import (
	"context"
	"strings"
	"time"

	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/cli/tui/scrapeflow"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SettingsStore reads and writes the backend setting.
type SettingsStore interface {
	Backend(ctx context.Context) (string, error)
	SaveBackend(ctx context.Context, raw string) (normalized string, saved bool, err error)
}

// settingsForm edits the backend base URL.
type settingsForm struct {
	ctx   context.Context
	store SettingsStore

	input   textinput.Model
	loaded  bool
	err     error
	showOK  bool
	saveSeq int
}

func newSettingsForm(deps Deps) *settingsForm {
	input := textinput.New()
	input.Placeholder = "http://localhost:10000"
	input.CharLimit = 2048
	input.Width = 60
	input.Focus()

	return &settingsForm{
		ctx:   deps.context(),
		store: deps.Store,
		input: input,
	}
}

func (m *settingsForm) Init() tea.Cmd {
	store, ctx := m.store, m.ctx
	return tea.Batch(func() tea.Msg {
		backend, err := store.Backend(ctx)
		return scrapeflow.SettingsLoadedMsg{Backend: backend, Err: err}
	}, textinput.Blink)
}

func (m *settingsForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scrapeflow.SettingsLoadedMsg:
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.input.SetValue(msg.Backend)
			m.input.CursorEnd()
		}
		return m, nil

	case scrapeflow.SettingsSavedMsg:
		if msg.Err != nil {
			logger.LogError(msg.Err, "settings: save failed")
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		if !msg.Saved {
			// Empty input leaves the stored value untouched
			return m, nil
		}
		m.input.SetValue(msg.Backend)
		m.input.CursorEnd()
		m.showOK = true
		m.saveSeq++
		seq := m.saveSeq
		return m, tea.Tick(scrapeflow.SavedNoticeDuration, func(time.Time) tea.Msg {
			return scrapeflow.HideSavedMsg{Seq: seq}
		})

	case scrapeflow.HideSavedMsg:
		if msg.Seq == m.saveSeq {
			m.showOK = false
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return scrapeflow.BackToMenuMsg{} }
		case "enter":
			return m, m.save()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *settingsForm) save() tea.Cmd {
	store, ctx, raw := m.store, m.ctx, m.input.Value()
	return func() tea.Msg {
		normalized, saved, err := store.SaveBackend(ctx, raw)
		return scrapeflow.SettingsSavedMsg{Backend: normalized, Saved: saved, Err: err}
	}
}

func (m *settingsForm) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Settings"))
	b.WriteString(renderDivider(60) + "\n\n")

	b.WriteString(fieldLabelStyle.Render("Backend URL") + "\n")
	if !m.loaded {
		b.WriteString(renderLoadingState("Loading...") + "\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString("\n")

	if m.showOK {
		b.WriteString(successStyle.Render("Saved ✓") + "\n")
	}
	if m.err != nil {
		b.WriteString(renderError(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("Enter: save • Esc: back") + "\n")
	return b.String()
}
