package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/ecohabits/internal/models"
	"github.com/julianstephens/ecohabits/internal/storage"
)

const habitLogColumns = `id, habit_id, user_id, log_date, quantity, notes, created_at`

func scanHabitLog(row scanner) (models.HabitLog, error) {
	var l models.HabitLog
	var quantity sql.NullFloat64
	var notes sql.NullString
	var logDate, createdAt string

	err := row.Scan(&l.ID, &l.HabitID, &l.UserID, &logDate, &quantity, &notes, &createdAt)
	if err != nil {
		return models.HabitLog{}, err
	}

	l.Quantity = floatPtr(quantity)
	l.Notes = stringPtr(notes)
	if l.LogDate, err = parseTime("log_date", logDate); err != nil {
		return models.HabitLog{}, err
	}
	if l.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.HabitLog{}, err
	}
	return l, nil
}

func (s *Store) CreateHabitLog(ctx context.Context, log models.HabitLog) error {
	if log.LogDate.IsZero() {
		log.LogDate = log.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_logs (`+habitLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.HabitID, log.UserID, formatTime(log.LogDate),
		nullFloat(log.Quantity), nullString(log.Notes), formatTime(log.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit log: %w", err)
	}
	return nil
}

func (s *Store) GetHabitLog(ctx context.Context, id, userID string) (models.HabitLog, error) {
	return getHabitLog(ctx, s.db, id, userID)
}

func getHabitLog(ctx context.Context, q queryRower, id, userID string) (models.HabitLog, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+habitLogColumns+`
		FROM habit_logs WHERE id = ? AND user_id = ?`, id, userID)

	l, err := scanHabitLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitLog{}, storage.ErrNotFound
	}
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to get habit log: %w", err)
	}
	return l, nil
}

func (s *Store) UpdateHabitLog(ctx context.Context, id, userID string, update models.HabitLogUpdate) (models.HabitLog, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.HabitLog{}, err
	}
	defer tx.Rollback()

	existing, err := getHabitLog(ctx, tx, id, userID)
	if err != nil {
		return models.HabitLog{}, err
	}
	updated := existing.Apply(update)

	_, err = tx.ExecContext(ctx, `
		UPDATE habit_logs SET habit_id = ?, log_date = ?, quantity = ?, notes = ?
		WHERE id = ? AND user_id = ?`,
		updated.HabitID, formatTime(updated.LogDate), nullFloat(updated.Quantity), nullString(updated.Notes),
		id, userID)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to update habit log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.HabitLog{}, err
	}
	return updated, nil
}

func (s *Store) ListHabitLogs(ctx context.Context, userID string, habitID *string) ([]models.HabitLog, error) {
	query := "SELECT " + habitLogColumns + " FROM habit_logs WHERE user_id = ?"
	args := []any{userID}
	if habitID != nil {
		query += " AND habit_id = ?"
		args = append(args, *habitID)
	}
	query += " ORDER BY log_date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}
	defer rows.Close()

	logs := []models.HabitLog{}
	for rows.Next() {
		l, err := scanHabitLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
