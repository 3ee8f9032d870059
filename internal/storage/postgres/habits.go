package postgres

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

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &description, &category, &frequency,
		&target, &impact, &impactUnit, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Description = stringPtr(description)
	h.Category = stringPtr(category)
	h.Frequency = stringPtr(frequency)
	h.TargetPerPeriod = floatPtr(target)
	h.ImpactPerUnit = floatPtr(impact)
	h.ImpactUnit = stringPtr(impactUnit)
	return h, nil
}

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		habit.ID, habit.UserID, habit.Name,
		nullString(habit.Description), nullString(habit.Category), nullString(habit.Frequency),
		nullFloat(habit.TargetPerPeriod), nullFloat(habit.ImpactPerUnit), nullString(habit.ImpactUnit),
		habit.IsActive, habit.CreatedAt, habit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(ctx context.Context, id, userID string) (models.Habit, error) {
	return getHabit(ctx, s.db, id, userID, false)
}

func getHabit(ctx context.Context, q queryRower, id, userID string, forUpdate bool) (models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE id = $1 AND user_id = $2"
	if forUpdate {
		query += " FOR UPDATE"
	}

	h, err := scanHabit(q.QueryRowContext(ctx, query, id, userID))
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

	habit, err := getHabit(ctx, tx, id, userID, true)
	if err != nil {
		return models.Habit{}, err
	}
	habit.Apply(patch, now)

	_, err = tx.ExecContext(ctx, `
		UPDATE habits SET
			name = $1, description = $2, category = $3, frequency = $4,
			target_per_period = $5, impact_per_unit = $6, impact_unit = $7,
			updated_at = $8
		WHERE id = $9 AND user_id = $10`,
		habit.Name, nullString(habit.Description), nullString(habit.Category), nullString(habit.Frequency),
		nullFloat(habit.TargetPerPeriod), nullFloat(habit.ImpactPerUnit), nullString(habit.ImpactUnit),
		habit.UpdatedAt, id, userID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (s *Store) ArchiveHabit(ctx context.Context, id, userID string, now time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE habits SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND user_id = $3",
		now, id, userID)
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
	query := "SELECT " + habitColumns + " FROM habits WHERE user_id = $1"
	if !includeInactive {
		query += " AND is_active = TRUE"
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
