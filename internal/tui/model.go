// Package tui is an interactive habit browser over the action layer.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ecohabits/internal/actions"
	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/constants"
	"github.com/julianstephens/ecohabits/internal/models"
)

type Item struct {
	Habit       models.Habit
	LoggedToday bool
}

func (i Item) Title() string {
	switch {
	case !i.Habit.IsActive:
		return "[ARCHIVED] " + i.Habit.Name
	case i.LoggedToday:
		return "✓ " + i.Habit.Name
	default:
		return "○ " + i.Habit.Name
	}
}

func (i Item) Description() string {
	desc := "not logged today"
	if !i.Habit.IsActive {
		desc = "archived"
	} else if i.LoggedToday {
		desc = "logged today"
	}
	if i.Habit.Category != nil {
		desc = *i.Habit.Category + " · " + desc
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type habitsLoadedMsg struct {
	items []Item
}

type actionDoneMsg struct {
	status string
}

type errMsg struct {
	err error
}

type Model struct {
	svc          *actions.Service
	caller       auth.Caller
	now          func() time.Time
	keys         KeyMap
	help         help.Model
	list         list.Model
	showArchived bool
	status       string
	err          error
	quitting     bool
}

func NewModel(svc *actions.Service, caller auth.Caller) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{
		svc:    svc,
		caller: caller,
		now:    time.Now,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		list:   l,
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

// load lists the caller's habits and marks the ones with a log dated today.
func (m Model) load() tea.Cmd {
	svc, caller, showArchived := m.svc, m.caller, m.showArchived
	today := m.now().Format(constants.DateFormat)
	return func() tea.Msg {
		ctx := context.Background()
		habits, err := svc.ListMyHabits(ctx, caller, actions.ListMyHabitsInput{IncludeInactive: showArchived})
		if err != nil {
			return errMsg{err}
		}
		logs, err := svc.ListHabitLogs(ctx, caller, actions.ListHabitLogsInput{})
		if err != nil {
			return errMsg{err}
		}

		logged := make(map[string]bool)
		for _, l := range logs.Data.Items {
			if l.LogDate.Local().Format(constants.DateFormat) == today {
				logged[l.HabitID] = true
			}
		}
		items := make([]Item, len(habits.Data.Items))
		for i, h := range habits.Data.Items {
			items[i] = Item{Habit: h, LoggedToday: logged[h.ID]}
		}
		return habitsLoadedMsg{items}
	}
}

func (m Model) logToday(h models.Habit) tea.Cmd {
	svc, caller := m.svc, m.caller
	day := m.now()
	return func() tea.Msg {
		qty := 1.0
		_, err := svc.UpsertHabitLog(context.Background(), caller, actions.UpsertHabitLogInput{
			HabitID:  h.ID,
			LogDate:  &day,
			Quantity: &qty,
		})
		if err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{fmt.Sprintf("Logged %s", h.Name)}
	}
}

func (m Model) archive(h models.Habit) tea.Cmd {
	svc, caller := m.svc, m.caller
	return func() tea.Msg {
		if _, err := svc.ArchiveHabit(context.Background(), caller, actions.ArchiveHabitInput{ID: h.ID}); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{fmt.Sprintf("Archived %s", h.Name)}
	}
}

func (m Model) selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}
