package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/ecohabits/internal/models"
)

// ErrNotFound is returned when no row matches the id for the given owner.
var ErrNotFound = errors.New("record not found")

// HabitStore persists habit definitions. Every lookup is scoped by owner.
type HabitStore interface {
	CreateHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id, userID string) (models.Habit, error)
	// UpdateHabit applies patch to the owned habit and stamps UpdatedAt with now.
	UpdateHabit(ctx context.Context, id, userID string, patch models.HabitPatch, now time.Time) (models.Habit, error)
	// ArchiveHabit sets IsActive to false and stamps UpdatedAt with now.
	ArchiveHabit(ctx context.Context, id, userID string, now time.Time) error
	ListHabits(ctx context.Context, userID string, includeInactive bool) ([]models.Habit, error)
}

// HabitLogStore persists habit log entries. Every lookup is scoped by owner.
type HabitLogStore interface {
	// CreateHabitLog stores log; a zero LogDate defaults to CreatedAt.
	CreateHabitLog(ctx context.Context, log models.HabitLog) error
	GetHabitLog(ctx context.Context, id, userID string) (models.HabitLog, error)
	UpdateHabitLog(ctx context.Context, id, userID string, update models.HabitLogUpdate) (models.HabitLog, error)
	// ListHabitLogs returns the owner's logs, restricted to habitID when non-nil.
	ListHabitLogs(ctx context.Context, userID string, habitID *string) ([]models.HabitLog, error)
}

// Provider is a storage backend holding both stores.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	HabitStore
	HabitLogStore

	// Migrate applies pending schema migrations and returns how many ran.
	Migrate(logFn func(string)) (int, error)
	// SchemaStatus reports the current and latest known schema versions.
	SchemaStatus() (current, latest int, err error)

	// Utils
	GetConfigPath() string
}

// IsPostgres reports whether a config value is a PostgreSQL connection URL.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}
