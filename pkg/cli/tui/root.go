package tui

import (
	"context"
	"strings"

	"sitescrape-go/pkg/cli/tui/scrapeflow"
	"sitescrape-go/pkg/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

// Deps are the shared dependencies of all flows.
type Deps struct {
	Context     context.Context
	Controller  *workflow.Controller
	Client      FileClient
	Store       SettingsStore
	DownloadDir string
	PreviewRows int
}

func (d Deps) context() context.Context {
	if d.Context == nil {
		return context.Background()
	}
	return d.Context
}

// rootModel is the Bubble Tea model that acts as an app shell for multiple flows.
// It presents a simple menu and then hands control to a specific flow model.
type rootModel struct {
	deps Deps

	// The scrape form is kept across visits so its state survives a trip
	// to the settings screen.
	scrape   *scrapeForm
	current  tea.Model
	showHelp bool
	size     *tea.WindowSizeMsg
}

// NewRootModel constructs the root app-shell model. It opens straight into
// the scrape form.
func NewRootModel(deps Deps) tea.Model {
	m := &rootModel{deps: deps}
	m.scrape = newScrapeForm(deps)
	m.current = m.scrape
	return m
}

func (m *rootModel) Init() tea.Cmd {
	if m.current != nil {
		return m.current.Init()
	}
	return nil
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.size = &msg
	case scrapeflow.OpenSettingsMsg:
		return m, m.open(newSettingsForm(m.deps))
	case scrapeflow.BackToMenuMsg:
		if _, fromSettings := m.current.(*settingsForm); fromSettings {
			// Settings were opened from the scrape form; pick up a new backend.
			m.current = m.scrape
			return m, m.scrape.reload()
		}
		m.current = nil
		return m, nil
	}

	// If we have an active flow, delegate all messages to it.
	if m.current != nil {
		var cmd tea.Cmd
		m.current, cmd = m.current.Update(msg)
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		case "1":
			m.current = m.scrape
			return m, m.scrape.reload()
		case "2":
			return m, m.open(newSettingsForm(m.deps))
		}
	}

	return m, nil
}

// open makes flow current and replays the last known window size to it.
func (m *rootModel) open(flow tea.Model) tea.Cmd {
	m.current = flow
	cmd := flow.Init()
	if m.size != nil {
		m.current, _ = m.current.Update(*m.size)
	}
	return cmd
}

func (m *rootModel) View() string {
	// When a flow is active, defer to its view.
	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	b.WriteString(renderTitle("Site Scrape"))
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")
	b.WriteString(boldStyle.Render("Select an action:") + "\n\n")
	b.WriteString("  " + selectedMarkerStyle.Render("1)") + " Scrape a site\n")
	b.WriteString("  " + selectedMarkerStyle.Render("2)") + " Settings (backend URL)\n")
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(boldStyle.Render("Menu") + "\n" + RootMenuHelpContent() + "\n")
		b.WriteString(boldStyle.Render("Scrape") + "\n" + ScrapeFormHelpContent() + "\n")
		b.WriteString(boldStyle.Render("Settings") + "\n" + SettingsHelpContent() + "\n")
	}
	b.WriteString(helpStyle.Render("Press the number of an option, '?' for help, or 'q' / Esc to quit.") + "\n")

	return b.String()
}
