// Package actions is the single entry point for reading and changing habit
// data on behalf of a caller. Every operation authenticates, validates input
// shape, enforces ownership through owner-scoped store lookups and wraps its
// payload in a Result.
package actions

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/errors"
	"github.com/julianstephens/ecohabits/internal/models"
	"github.com/julianstephens/ecohabits/internal/storage"
)

// Result is the success envelope returned by every operation.
type Result[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// HabitRef identifies the habit an operation touched.
type HabitRef struct {
	HabitID string `json:"habitId"`
}

// LogRef identifies the log written by UpsertHabitLog and how it was written.
type LogRef struct {
	LogID string `json:"logId"`
	Mode  string `json:"mode"` // created or updated
}

// List is a complete, unpaginated listing.
type List[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func listOf[T any](items []T) List[T] {
	if items == nil {
		items = []T{}
	}
	return List[T]{Items: items, Total: len(items)}
}

// Service holds no per-call state and is safe for concurrent use.
type Service struct {
	habits storage.HabitStore
	logs   storage.HabitLogStore

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

func New(habits storage.HabitStore, logs storage.HabitLogStore) *Service {
	return &Service{
		habits: habits,
		logs:   logs,
		Now:    func() time.Time { return time.Now().UTC() },
		NewID:  uuid.NewString,
	}
}

// NewFromProvider builds a Service over both stores of p.
func NewFromProvider(p storage.Provider) *Service {
	return New(p, p)
}

func requireUser(caller auth.Caller) (string, error) {
	if !caller.Authenticated() {
		return "", errors.Unauthorized()
	}
	return caller.UserID, nil
}

// invalid converts a models.FieldError into a VALIDATION error.
func invalid(err error) error {
	var fe *models.FieldError
	if stderrors.As(err, &fe) {
		return errors.Invalid(fe.Field, fe.Message)
	}
	return errors.Wrap(errors.KindValidation, err.Error(), err)
}

// notFound maps storage.ErrNotFound to NOT_FOUND and passes other storage
// failures through unclassified.
func notFound(err error, entity, id string) error {
	if stderrors.Is(err, storage.ErrNotFound) {
		e := errors.NotFound(entity, id)
		e.Cause = err
		return e
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
