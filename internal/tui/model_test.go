package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ecohabits/internal/actions"
	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/models"
	"github.com/julianstephens/ecohabits/internal/storage/sqlite"
)

func setupTestModel(t *testing.T, caller auth.Caller) (Model, *actions.Service) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "tui.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := actions.NewFromProvider(store)
	m := NewModel(svc, caller)
	m.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local) }

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return next.(Model), svc
}

// step feeds msg to the model and runs the returned command once.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	if cmd == nil {
		return next.(Model), nil
	}
	return next.(Model), cmd()
}

func keyPress(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func items(m Model) []Item {
	var out []Item
	for _, it := range m.list.Items() {
		out = append(out, it.(Item))
	}
	return out
}

func TestModelLogAndArchive(t *testing.T) {
	caller := auth.User("alice")
	m, svc := setupTestModel(t, caller)
	if _, err := svc.CreateHabit(context.Background(), caller, actions.CreateHabitInput{Name: "Walk"}); err != nil {
		t.Fatal(err)
	}

	m, _ = step(t, m, m.Init()())
	got := items(m)
	if len(got) != 1 || got[0].LoggedToday {
		t.Fatalf("unexpected initial items: %+v", got)
	}

	m, msg := step(t, m, keyPress("l"))
	done, ok := msg.(actionDoneMsg)
	if !ok {
		t.Fatalf("expected actionDoneMsg, got %#v", msg)
	}
	if done.status != "Logged Walk" {
		t.Errorf("unexpected status %q", done.status)
	}

	m, msg = step(t, m, done)
	m, _ = step(t, m, msg)
	if got := items(m); len(got) != 1 || !got[0].LoggedToday {
		t.Fatalf("expected habit logged today, got %+v", got)
	}
	if !strings.Contains(m.View(), "Logged Walk") {
		t.Error("expected status in view")
	}

	m, msg = step(t, m, keyPress("x"))
	m, msg = step(t, m, msg)
	m, _ = step(t, m, msg)
	if got := items(m); len(got) != 0 {
		t.Fatalf("expected archived habit hidden, got %+v", got)
	}

	m, msg = step(t, m, keyPress("tab"))
	m, _ = step(t, m, msg)
	got = items(m)
	if len(got) != 1 || got[0].Habit.IsActive {
		t.Fatalf("expected archived habit listed, got %+v", got)
	}

	// Archived habits cannot be logged.
	if _, cmd := m.Update(keyPress("l")); cmd != nil {
		t.Error("expected no command for an archived habit")
	}

	logs, err := svc.ListHabitLogs(context.Background(), caller, actions.ListHabitLogsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if logs.Data.Total != 1 || *logs.Data.Items[0].Quantity != 1 {
		t.Errorf("unexpected logs: %+v", logs.Data)
	}
}

func TestModelAnonymous(t *testing.T) {
	m, _ := setupTestModel(t, auth.Anonymous())

	m, _ = step(t, m, m.Init()())
	if !strings.Contains(m.View(), "authentication required") {
		t.Errorf("expected unauthorized error in view:\n%s", m.View())
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := setupTestModel(t, auth.User("alice"))

	next, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quitting")
	}
}

func TestItemTitle(t *testing.T) {
	category := "transport"
	tests := []struct {
		name      string
		item      Item
		wantTitle string
		wantDesc  string
	}{
		{"pending", Item{Habit: models.Habit{Name: "Bike", IsActive: true}}, "○ Bike", "not logged today"},
		{"logged", Item{Habit: models.Habit{Name: "Bike", IsActive: true, Category: &category}, LoggedToday: true}, "✓ Bike", "transport · logged today"},
		{"archived", Item{Habit: models.Habit{Name: "Bike"}, LoggedToday: true}, "[ARCHIVED] Bike", "archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Title(); got != tt.wantTitle {
				t.Errorf("Title() = %q, want %q", got, tt.wantTitle)
			}
			if got := tt.item.Description(); got != tt.wantDesc {
				t.Errorf("Description() = %q, want %q", got, tt.wantDesc)
			}
		})
	}
}
