package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
		return m, tea.Quit
	}
	m.statusMsg = ""

	summary := m.tabs[m.activeTab].summary
	switch msg.String() {
	case "left", "h", "shift+tab":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l", "tab":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "v":
		m.toggleView()
		m.statusMsg = "Visão " + m.view.String()
		return m, nil
	case "y":
		if err := m.copyFn(m.copyText()); err != nil {
			m.statusMsg = fmt.Sprintf("Falha ao copiar: %v", err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("%s copiado", m.tabs[m.activeTab].label)
		return m, nil
	case "g", "home":
		if summary {
			m.summary.GotoTop()
		} else {
			m.tables[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if summary {
			m.summary.GotoBottom()
		} else {
			m.tables[m.activeTab].GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if summary {
		m.summary, cmd = m.summary.Update(msg)
	} else {
		m.tables[m.activeTab], cmd = m.tables[m.activeTab].Update(msg)
	}
	return m, cmd
}
