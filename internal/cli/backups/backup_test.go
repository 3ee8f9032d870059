package backups

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/ecohabits/internal/actions"
	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/cli"
	"github.com/julianstephens/ecohabits/internal/config"
	"github.com/julianstephens/ecohabits/internal/storage/postgres"
	"github.com/julianstephens/ecohabits/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "ecohabits.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var out bytes.Buffer
	ctx := cli.NewContext(store, config.Config{}, auth.User("alice"))
	ctx.Out = &out
	return ctx, &out, store
}

func addHabit(t *testing.T, ctx *cli.Context, name string) {
	t.Helper()
	if _, err := ctx.Actions.CreateHabit(context.Background(), ctx.Caller, actions.CreateHabitInput{Name: name}); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
}

func habitNames(t *testing.T, ctx *cli.Context) []string {
	t.Helper()
	res, err := ctx.Actions.ListMyHabits(context.Background(), ctx.Caller, actions.ListMyHabitsInput{})
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	var names []string
	for _, h := range res.Data.Items {
		names = append(names, h.Name)
	}
	return names
}

func TestBackupListEmpty(t *testing.T) {
	ctx, out, _ := setupTestContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	addHabit(t, ctx, "Walk")

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Backup created: ecohabits-") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected listing %q", out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out, store := setupTestContext(t)
	addHabit(t, ctx, "Walk")

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "Backup created: "))

	addHabit(t, ctx, "Compost")
	if got := habitNames(t, ctx); len(got) != 2 {
		t.Fatalf("expected 2 habits before restore, got %v", got)
	}

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Database restored successfully.") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := store.Load(); err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	got := habitNames(t, ctx)
	if len(got) != 1 || got[0] != "Walk" {
		t.Errorf("expected only the backed-up habit, got %v", got)
	}

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(store.GetConfigPath()), "backups"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected pre-restore backup alongside the original, got %d files", len(entries))
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _, _ := setupTestContext(t)

	err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "backup file not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	ctx.Store = postgres.New("postgres://eco@localhost/eco?sslmode=disable")

	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected error for PostgreSQL storage")
	}
}
