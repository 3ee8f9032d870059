package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/constants"
	"github.com/julianstephens/ecohabits/internal/errors"
	"github.com/julianstephens/ecohabits/internal/logger"
	"github.com/julianstephens/ecohabits/internal/models"
)

// UpsertHabitLogInput creates a log when ID is nil and updates log ID otherwise.
type UpsertHabitLogInput struct {
	ID       *string    `json:"id,omitempty"`
	HabitID  string     `json:"habitId"`
	LogDate  *time.Time `json:"logDate,omitempty"`
	Quantity *float64   `json:"quantity,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

type ListHabitLogsInput struct {
	HabitID *string `json:"habitId,omitempty"`
}

func (s *Service) UpsertHabitLog(ctx context.Context, caller auth.Caller, in UpsertHabitLogInput) (Result[LogRef], error) {
	userID, err := requireUser(caller)
	if err != nil {
		return Result[LogRef]{}, err
	}

	habitID := strings.TrimSpace(in.HabitID)
	if habitID == "" {
		return Result[LogRef]{}, errors.Invalid("habitId", "habitId is required")
	}
	var logID string
	if in.ID != nil {
		logID = strings.TrimSpace(*in.ID)
		if logID == "" {
			return Result[LogRef]{}, errors.Invalid("id", "id cannot be empty")
		}
	}

	update := models.HabitLogUpdate{
		HabitID:  habitID,
		LogDate:  in.LogDate,
		Quantity: in.Quantity,
		Notes:    in.Notes,
	}
	if err := update.Validate(); err != nil {
		return Result[LogRef]{}, invalid(err)
	}

	// The referenced habit must belong to the caller on both paths.
	if _, err := s.habits.GetHabit(ctx, habitID, userID); err != nil {
		return Result[LogRef]{}, notFound(err, "habit", habitID)
	}

	if in.ID == nil {
		return s.createLog(ctx, userID, update)
	}

	if _, err := s.logs.UpdateHabitLog(ctx, logID, userID, update); err != nil {
		return Result[LogRef]{}, notFound(err, "habit log", logID)
	}

	logger.Info("Updated habit log", "user", userID, "habit", habitID, "log", logID)
	return ok(LogRef{LogID: logID, Mode: constants.ModeUpdated}), nil
}

func (s *Service) createLog(ctx context.Context, userID string, u models.HabitLogUpdate) (Result[LogRef], error) {
	log := models.HabitLog{
		ID:        s.NewID(),
		HabitID:   u.HabitID,
		UserID:    userID,
		Quantity:  u.Quantity,
		Notes:     u.Notes,
		CreatedAt: s.Now(),
	}
	if u.LogDate != nil {
		log.LogDate = *u.LogDate
	}

	if err := s.logs.CreateHabitLog(ctx, log); err != nil {
		return Result[LogRef]{}, fmt.Errorf("create habit log: %w", err)
	}

	logger.Info("Created habit log", "user", userID, "habit", log.HabitID, "log", log.ID)
	return ok(LogRef{LogID: log.ID, Mode: constants.ModeCreated}), nil
}

func (s *Service) ListHabitLogs(ctx context.Context, caller auth.Caller, in ListHabitLogsInput) (Result[List[models.HabitLog]], error) {
	userID, err := requireUser(caller)
	if err != nil {
		return Result[List[models.HabitLog]]{}, err
	}

	var habitID *string
	if in.HabitID != nil {
		id := strings.TrimSpace(*in.HabitID)
		if id == "" {
			return Result[List[models.HabitLog]]{}, errors.Invalid("habitId", "habitId cannot be empty")
		}
		if _, err := s.habits.GetHabit(ctx, id, userID); err != nil {
			return Result[List[models.HabitLog]]{}, notFound(err, "habit", id)
		}
		habitID = &id
	}

	logs, err := s.logs.ListHabitLogs(ctx, userID, habitID)
	if err != nil {
		return Result[List[models.HabitLog]]{}, fmt.Errorf("list habit logs: %w", err)
	}

	logger.Debug("Listed habit logs", "user", userID, "count", len(logs))
	return ok(listOf(logs)), nil
}
