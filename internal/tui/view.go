package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := "Habits"
	if m.showArchived {
		title = "Habits (including archived)"
	}

	var footer string
	switch {
	case m.err != nil:
		footer = dangerStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		footer = statusStyle.Render(m.status)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		m.list.View(),
		footer,
		m.help.View(m.keys),
	))
}
