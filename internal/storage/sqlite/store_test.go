package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ecohabits/internal/models"
	"github.com/julianstephens/ecohabits/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func ptr[T any](v T) *T { return &v }

func newHabit(userID, name string, createdAt time.Time) models.Habit {
	return models.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestInitCreatesTables(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"habits", "habit_logs", "schema_version"} {
		exists, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%s): %v", table, err)
		}
		if !exists {
			t.Errorf("expected table %s to exist", table)
		}
	}

	current, latest, err := store.SchemaStatus()
	if err != nil {
		t.Fatalf("SchemaStatus: %v", err)
	}
	if current != latest {
		t.Errorf("expected schema at latest version %d, got %d", latest, current)
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil {
		t.Fatal("expected error loading uninitialized store")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer second.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file at %s: %v", path, err)
	}
}

func TestHabitCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

	habit := newHabit("user-1", "Bike to work", now)
	habit.Category = ptr("transport")
	habit.TargetPerPeriod = ptr(5.0)
	habit.ImpactPerUnit = ptr(2.4)
	habit.ImpactUnit = ptr("kg_co2")

	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	got, err := store.GetHabit(ctx, habit.ID, "user-1")
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if got.Name != "Bike to work" {
		t.Errorf("expected name %q, got %q", "Bike to work", got.Name)
	}
	if got.Description != nil {
		t.Errorf("expected nil description, got %q", *got.Description)
	}
	if got.ImpactPerUnit == nil || *got.ImpactPerUnit != 2.4 {
		t.Errorf("expected impactPerUnit 2.4, got %v", got.ImpactPerUnit)
	}
	if !got.IsActive {
		t.Error("expected habit to be active")
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected createdAt %v, got %v", now, got.CreatedAt)
	}

	later := now.Add(time.Hour)
	updated, err := store.UpdateHabit(ctx, habit.ID, "user-1", models.HabitPatch{
		Name:        models.Some("Cycle to work"),
		Description: models.Some("at least 3 days"),
	}, later)
	if err != nil {
		t.Fatalf("UpdateHabit: %v", err)
	}
	if updated.Name != "Cycle to work" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}

	reloaded, err := store.GetHabit(ctx, habit.ID, "user-1")
	if err != nil {
		t.Fatalf("GetHabit after update: %v", err)
	}
	if reloaded.Description == nil || *reloaded.Description != "at least 3 days" {
		t.Errorf("expected description to be set, got %v", reloaded.Description)
	}
	if reloaded.Category == nil || *reloaded.Category != "transport" {
		t.Errorf("expected category to be untouched, got %v", reloaded.Category)
	}
	if !reloaded.UpdatedAt.Equal(later) {
		t.Errorf("expected updatedAt %v, got %v", later, reloaded.UpdatedAt)
	}
	if !reloaded.CreatedAt.Equal(now) {
		t.Errorf("expected createdAt to be unchanged, got %v", reloaded.CreatedAt)
	}
}

func TestHabitOwnerScoping(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	habit := newHabit("owner", "Meatless Monday", now)
	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	if _, err := store.GetHabit(ctx, habit.ID, "intruder"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit: expected ErrNotFound, got %v", err)
	}
	if _, err := store.UpdateHabit(ctx, habit.ID, "intruder", models.HabitPatch{Name: models.Some("x")}, now); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateHabit: expected ErrNotFound, got %v", err)
	}
	if err := store.ArchiveHabit(ctx, habit.ID, "intruder", now); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("ArchiveHabit: expected ErrNotFound, got %v", err)
	}

	habits, err := store.ListHabits(ctx, "intruder", true)
	if err != nil {
		t.Fatalf("ListHabits: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected no habits for intruder, got %d", len(habits))
	}

	got, err := store.GetHabit(ctx, habit.ID, "owner")
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if got.Name != "Meatless Monday" || !got.IsActive {
		t.Errorf("habit was modified by another user: %+v", got)
	}
}

func TestHabitArchive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := newHabit("user-1", "Reusable bags", base)
	second := newHabit("user-1", "Cold showers", base.Add(time.Minute))
	for _, h := range []models.Habit{second, first} {
		if err := store.CreateHabit(ctx, h); err != nil {
			t.Fatalf("CreateHabit: %v", err)
		}
	}

	if err := store.ArchiveHabit(ctx, first.ID, "user-1", base.Add(time.Hour)); err != nil {
		t.Fatalf("ArchiveHabit: %v", err)
	}
	// Archiving twice is not an error.
	if err := store.ArchiveHabit(ctx, first.ID, "user-1", base.Add(2*time.Hour)); err != nil {
		t.Fatalf("ArchiveHabit again: %v", err)
	}

	active, err := store.ListHabits(ctx, "user-1", false)
	if err != nil {
		t.Fatalf("ListHabits: %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Errorf("expected only %s in active list, got %+v", second.ID, active)
	}

	all, err := store.ListHabits(ctx, "user-1", true)
	if err != nil {
		t.Fatalf("ListHabits(all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 habits, got %d", len(all))
	}
	if all[0].ID != first.ID || all[1].ID != second.ID {
		t.Errorf("expected habits ordered by creation time")
	}
	if all[0].IsActive {
		t.Error("expected archived habit to be inactive")
	}
}

func TestHabitLogCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	habit := newHabit("user-1", "Walk", now)
	other := newHabit("user-1", "Transit", now)
	for _, h := range []models.Habit{habit, other} {
		if err := store.CreateHabit(ctx, h); err != nil {
			t.Fatalf("CreateHabit: %v", err)
		}
	}

	log := models.HabitLog{
		ID:        uuid.NewString(),
		HabitID:   habit.ID,
		UserID:    "user-1",
		Quantity:  ptr(2.0),
		Notes:     ptr("to the store"),
		CreatedAt: now,
	}
	if err := store.CreateHabitLog(ctx, log); err != nil {
		t.Fatalf("CreateHabitLog: %v", err)
	}

	got, err := store.GetHabitLog(ctx, log.ID, "user-1")
	if err != nil {
		t.Fatalf("GetHabitLog: %v", err)
	}
	if !got.LogDate.Equal(now) {
		t.Errorf("expected logDate to default to createdAt, got %v", got.LogDate)
	}

	updated, err := store.UpdateHabitLog(ctx, log.ID, "user-1", models.HabitLogUpdate{
		HabitID:  other.ID,
		Quantity: ptr(3.5),
	})
	if err != nil {
		t.Fatalf("UpdateHabitLog: %v", err)
	}
	if updated.ID != log.ID {
		t.Errorf("expected id to be unchanged, got %s", updated.ID)
	}

	reloaded, err := store.GetHabitLog(ctx, log.ID, "user-1")
	if err != nil {
		t.Fatalf("GetHabitLog after update: %v", err)
	}
	if reloaded.HabitID != other.ID {
		t.Errorf("expected habitId %s, got %s", other.ID, reloaded.HabitID)
	}
	if reloaded.Quantity == nil || *reloaded.Quantity != 3.5 {
		t.Errorf("expected quantity 3.5, got %v", reloaded.Quantity)
	}
	if reloaded.Notes != nil {
		t.Errorf("expected notes to be cleared, got %q", *reloaded.Notes)
	}
	if !reloaded.LogDate.Equal(now) {
		t.Errorf("expected logDate to be kept, got %v", reloaded.LogDate)
	}
	if !reloaded.CreatedAt.Equal(now) {
		t.Errorf("expected createdAt to be unchanged, got %v", reloaded.CreatedAt)
	}

	if _, err := store.GetHabitLog(ctx, log.ID, "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user, got %v", err)
	}
	if _, err := store.UpdateHabitLog(ctx, log.ID, "user-2", models.HabitLogUpdate{HabitID: habit.ID}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating another user's log, got %v", err)
	}
}

func TestListHabitLogsOrderingAndFilter(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	walk := newHabit("user-1", "Walk", base)
	bike := newHabit("user-1", "Bike", base)
	foreign := newHabit("user-2", "Compost", base)
	for _, h := range []models.Habit{walk, bike, foreign} {
		if err := store.CreateHabit(ctx, h); err != nil {
			t.Fatalf("CreateHabit: %v", err)
		}
	}

	entries := []models.HabitLog{
		{ID: "a", HabitID: walk.ID, UserID: "user-1", LogDate: base, CreatedAt: base},
		{ID: "b", HabitID: bike.ID, UserID: "user-1", LogDate: base.AddDate(0, 0, 2), CreatedAt: base},
		{ID: "c", HabitID: walk.ID, UserID: "user-1", LogDate: base.AddDate(0, 0, 2), CreatedAt: base.Add(time.Minute)},
		{ID: "d", HabitID: foreign.ID, UserID: "user-2", LogDate: base, CreatedAt: base},
	}
	for _, e := range entries {
		if err := store.CreateHabitLog(ctx, e); err != nil {
			t.Fatalf("CreateHabitLog(%s): %v", e.ID, err)
		}
	}

	tests := []struct {
		name    string
		habitID *string
		want    []string
	}{
		{"all logs", nil, []string{"c", "b", "a"}},
		{"walk only", ptr(walk.ID), []string{"c", "a"}},
		{"foreign habit", ptr(foreign.ID), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, err := store.ListHabitLogs(ctx, "user-1", tt.habitID)
			if err != nil {
				t.Fatalf("ListHabitLogs: %v", err)
			}
			if len(logs) != len(tt.want) {
				t.Fatalf("expected %d logs, got %d", len(tt.want), len(logs))
			}
			for i, id := range tt.want {
				if logs[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, logs[i].ID)
				}
			}
		})
	}
}

func TestCreateHabitLogRequiresHabit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.CreateHabitLog(ctx, models.HabitLog{
		ID:        uuid.NewString(),
		HabitID:   "does-not-exist",
		UserID:    "user-1",
		CreatedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("expected foreign key violation for unknown habit")
	}
}
