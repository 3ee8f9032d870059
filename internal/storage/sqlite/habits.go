package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/ecohabits/internal/models"
	"github.com/julianstephens/ecohabits/internal/storage"
)

const habitColumns = `id, user_id, name, description, category, frequency,
	target_per_period, impact_per_unit, impact_unit, is_active, created_at, updated_at`

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var description, category, frequency, impactUnit sql.NullString
	var target, impact sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &description, &category, &frequency,
		&target, &impact, &impactUnit, &h.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Description = stringPtr(description)
	h.Category = stringPtr(category)
	h.Frequency = stringPtr(frequency)
	h.TargetPerPeriod = floatPtr(target)
	h.ImpactPerUnit = floatPtr(impact)
	h.ImpactUnit = stringPtr(impactUnit)

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.UserID, habit.Name,
		nullString(habit.Description), nullString(habit.Category), nullString(habit.Frequency),
		nullFloat(habit.TargetPerPeriod), nullFloat(habit.ImpactPerUnit), nullString(habit.ImpactUnit),
		habit.IsActive, formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(ctx context.Context, id, userID string) (models.Habit, error) {
	return getHabit(ctx, s.db, id, userID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getHabit(ctx context.Context, q queryRower, id, userID string) (models.Habit, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits WHERE id = ? AND user_id = ?`, id, userID)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to get habit: %w", err)
	}
	return h, nil
}

func (s *Store) UpdateHabit(ctx context.Context, id, userID string, patch models.HabitPatch, now time.Time) (models.Habit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Habit{}, err
	}
	defer tx.Rollback()

	habit, err := getHabit(ctx, tx, id, userID)
	if err != nil {
		return models.Habit{}, err
	}
	habit.Apply(patch, now)

	_, err = tx.ExecContext(ctx, `
		UPDATE habits SET
			name = ?, description = ?, category = ?, frequency = ?,
			target_per_period = ?, impact_per_unit = ?, impact_unit = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		habit.Name, nullString(habit.Description), nullString(habit.Category), nullString(habit.Frequency),
		nullFloat(habit.TargetPerPeriod), nullFloat(habit.ImpactPerUnit), nullString(habit.ImpactUnit),
		formatTime(habit.UpdatedAt), id, userID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (s *Store) ArchiveHabit(ctx context.Context, id, userID string, now time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE habits SET is_active = 0, updated_at = ? WHERE id = ? AND user_id = ?`,
		formatTime(now), id, userID)
	if err != nil {
		return fmt.Errorf("failed to archive habit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListHabits(ctx context.Context, userID string, includeInactive bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE user_id = ?"
	if !includeInactive {
		query += " AND is_active = 1"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}
