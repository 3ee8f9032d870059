package models

import (
	"math"
	"time"
)

// HabitLog is one recorded occurrence of a habit. Logs carry no UpdatedAt.
type HabitLog struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habitId"`
	UserID    string    `json:"userId"`
	LogDate   time.Time `json:"logDate"`
	Quantity  *float64  `json:"quantity,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// HabitLogUpdate is the in-place edit of a log. HabitID, Quantity and Notes are
// overwritten as given; a nil LogDate keeps the stored value.
type HabitLogUpdate struct {
	HabitID  string
	LogDate  *time.Time
	Quantity *float64
	Notes    *string
}

// Validate checks the quantity of a log.
func (l HabitLog) Validate() error {
	return validateQuantity(l.Quantity)
}

// Validate checks the quantity of a log update.
func (u HabitLogUpdate) Validate() error {
	return validateQuantity(u.Quantity)
}

func validateQuantity(q *float64) error {
	if q != nil && (!(*q >= 0) || math.IsInf(*q, 0)) {
		return &FieldError{Field: "quantity", Message: "quantity must be a finite number greater than or equal to 0"}
	}
	return nil
}

// Apply returns the log with the update applied.
func (l HabitLog) Apply(u HabitLogUpdate) HabitLog {
	l.HabitID = u.HabitID
	if u.LogDate != nil {
		l.LogDate = *u.LogDate
	}
	l.Quantity = u.Quantity
	l.Notes = u.Notes
	return l
}
