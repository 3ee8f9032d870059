package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
		m.help.Width = msg.Width
		return m, nil

	case habitsLoadedMsg:
		items := make([]list.Item, len(msg.items))
		for i, it := range msg.items {
			items[i] = it
		}
		return m, m.list.SetItems(items)

	case actionDoneMsg:
		m.status, m.err = msg.status, nil
		return m, m.load()

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.ShowArchived):
			m.showArchived = !m.showArchived
			return m, m.load()
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			return m, m.load()
		case key.Matches(msg, m.keys.Log):
			if it, ok := m.selected(); ok && it.Habit.IsActive {
				return m, m.logToday(it.Habit)
			}
			return m, nil
		case key.Matches(msg, m.keys.Archive):
			if it, ok := m.selected(); ok && it.Habit.IsActive {
				return m, m.archive(it.Habit)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
