package tui

import (
	"strings"

	"sitescrape-go/pkg/cli/format"
	"sitescrape-go/pkg/cli/tui/scrapeflow"
	"sitescrape-go/pkg/models"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// previewModel shows a generated file as a scrollable table.
type previewModel struct {
	file     string
	viewport viewport.Model
}

// headerLines is the space taken by the title, divider and help line.
const headerLines = 6

func newPreviewModel(file string, preview models.TablePreview, maxRows, width, height int) *previewModel {
	var b strings.Builder
	format.Preview(&b, preview, maxRows)

	vp := viewport.New(width, max(height-headerLines, 3))
	vp.SetContent(b.String())

	return &previewModel{file: file, viewport: vp}
}

func (m *previewModel) Update(msg tea.Msg) (*previewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerLines, 3)
		return m, nil
	case tea.KeyMsg:
		if handleBackKeys(msg.String()) {
			return m, func() tea.Msg { return scrapeflow.ClosePreviewMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *previewModel) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Preview: " + m.file))
	b.WriteString(renderDivider(60) + "\n")
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(helpStyle.Render(PreviewHelpContent()))
	return b.String()
}
