package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/errors"
	"github.com/julianstephens/ecohabits/internal/logger"
	"github.com/julianstephens/ecohabits/internal/models"
)

// CreateHabitInput fields are stored as submitted. A name that is blank
// after trimming is rejected.
type CreateHabitInput struct {
	Name            string   `json:"name"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Frequency       *string  `json:"frequency,omitempty"`
	TargetPerPeriod *float64 `json:"targetPerPeriod,omitempty"`
	ImpactPerUnit   *float64 `json:"impactPerUnit,omitempty"`
	ImpactUnit      *string  `json:"impactUnit,omitempty"`
}

// UpdateHabitInput names the habit to change; only set patch fields are applied.
type UpdateHabitInput struct {
	ID string `json:"id"`
	models.HabitPatch
}

type ArchiveHabitInput struct {
	ID string `json:"id"`
}

type ListMyHabitsInput struct {
	IncludeInactive bool `json:"includeInactive"`
}

func (s *Service) CreateHabit(ctx context.Context, caller auth.Caller, in CreateHabitInput) (Result[HabitRef], error) {
	userID, err := requireUser(caller)
	if err != nil {
		return Result[HabitRef]{}, err
	}

	now := s.Now()
	habit := models.Habit{
		ID:              s.NewID(),
		UserID:          userID,
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		Frequency:       in.Frequency,
		TargetPerPeriod: in.TargetPerPeriod,
		ImpactPerUnit:   in.ImpactPerUnit,
		ImpactUnit:      in.ImpactUnit,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := habit.Validate(); err != nil {
		return Result[HabitRef]{}, invalid(err)
	}

	if err := s.habits.CreateHabit(ctx, habit); err != nil {
		return Result[HabitRef]{}, fmt.Errorf("create habit: %w", err)
	}

	logger.Info("Created habit", "user", userID, "habit", habit.ID)
	return ok(HabitRef{HabitID: habit.ID}), nil
}

func (s *Service) UpdateHabit(ctx context.Context, caller auth.Caller, in UpdateHabitInput) (Result[HabitRef], error) {
	userID, err := requireUser(caller)
	if err != nil {
		return Result[HabitRef]{}, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		return Result[HabitRef]{}, errors.Invalid("id", "id is required")
	}
	if in.HabitPatch.Empty() {
		return Result[HabitRef]{}, errors.Invalid("", "at least one field to update is required")
	}
	patch := in.HabitPatch
	if err := patch.Validate(); err != nil {
		return Result[HabitRef]{}, invalid(err)
	}

	if _, err := s.habits.UpdateHabit(ctx, id, userID, patch, s.Now()); err != nil {
		return Result[HabitRef]{}, notFound(err, "habit", id)
	}

	logger.Info("Updated habit", "user", userID, "habit", id)
	return ok(HabitRef{HabitID: id}), nil
}

// ArchiveHabit hides a habit from default listings. Its logs are kept.
func (s *Service) ArchiveHabit(ctx context.Context, caller auth.Caller, in ArchiveHabitInput) (Result[HabitRef], error) {
	userID, err := requireUser(caller)
	if err != nil {
		return Result[HabitRef]{}, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		return Result[HabitRef]{}, errors.Invalid("id", "id is required")
	}

	if err := s.habits.ArchiveHabit(ctx, id, userID, s.Now()); err != nil {
		return Result[HabitRef]{}, notFound(err, "habit", id)
	}

	logger.Info("Archived habit", "user", userID, "habit", id)
	return ok(HabitRef{HabitID: id}), nil
}

func (s *Service) ListMyHabits(ctx context.Context, caller auth.Caller, in ListMyHabitsInput) (Result[List[models.Habit]], error) {
	userID, err := requireUser(caller)
	if err != nil {
		return Result[List[models.Habit]]{}, err
	}

	habits, err := s.habits.ListHabits(ctx, userID, in.IncludeInactive)
	if err != nil {
		return Result[List[models.Habit]]{}, fmt.Errorf("list habits: %w", err)
	}

	logger.Debug("Listed habits", "user", userID, "count", len(habits), "includeInactive", in.IncludeInactive)
	return ok(listOf(habits)), nil
}
