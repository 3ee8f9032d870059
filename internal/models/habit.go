package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Habit is a user-owned habit definition. Archived habits have IsActive false.
type Habit struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	Frequency       *string   `json:"frequency,omitempty"` // daily, weekly, monthly by convention
	TargetPerPeriod *float64  `json:"targetPerPeriod,omitempty"`
	ImpactPerUnit   *float64  `json:"impactPerUnit,omitempty"`
	ImpactUnit      *string   `json:"impactUnit,omitempty"` // e.g. kg_co2
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HabitPatch holds the mutable habit fields; only set fields are applied.
type HabitPatch struct {
	Name            Optional[string]  `json:"name"`
	Description     Optional[string]  `json:"description"`
	Category        Optional[string]  `json:"category"`
	Frequency       Optional[string]  `json:"frequency"`
	TargetPerPeriod Optional[float64] `json:"targetPerPeriod"`
	ImpactPerUnit   Optional[float64] `json:"impactPerUnit"`
	ImpactUnit      Optional[string]  `json:"impactUnit"`
}

// Empty reports whether no field of the patch is set.
func (p HabitPatch) Empty() bool {
	return !p.Name.Set &&
		!p.Description.Set &&
		!p.Category.Set &&
		!p.Frequency.Set &&
		!p.TargetPerPeriod.Set &&
		!p.ImpactPerUnit.Set &&
		!p.ImpactUnit.Set
}

// Validate checks the set fields of the patch.
func (p HabitPatch) Validate() error {
	if p.Name.Set && strings.TrimSpace(p.Name.Value) == "" {
		return &FieldError{Field: "name", Message: "name cannot be empty"}
	}
	if p.TargetPerPeriod.Set {
		if err := validateTarget(p.TargetPerPeriod.Value); err != nil {
			return err
		}
	}
	if p.ImpactPerUnit.Set {
		if err := validateImpact(p.ImpactPerUnit.Value); err != nil {
			return err
		}
	}
	return nil
}

// Apply overwrites the fields set in p and refreshes UpdatedAt.
func (h *Habit) Apply(p HabitPatch, now time.Time) {
	if p.Name.Set {
		h.Name = p.Name.Value
	}
	if p.Description.Set {
		h.Description = p.Description.Ptr()
	}
	if p.Category.Set {
		h.Category = p.Category.Ptr()
	}
	if p.Frequency.Set {
		h.Frequency = p.Frequency.Ptr()
	}
	if p.TargetPerPeriod.Set {
		h.TargetPerPeriod = p.TargetPerPeriod.Ptr()
	}
	if p.ImpactPerUnit.Set {
		h.ImpactPerUnit = p.ImpactPerUnit.Ptr()
	}
	if p.ImpactUnit.Set {
		h.ImpactUnit = p.ImpactUnit.Ptr()
	}
	h.UpdatedAt = now
}

// Validate checks a complete habit before it is created.
func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return &FieldError{Field: "name", Message: "name is required"}
	}
	if h.TargetPerPeriod != nil {
		if err := validateTarget(*h.TargetPerPeriod); err != nil {
			return err
		}
	}
	if h.ImpactPerUnit != nil {
		if err := validateImpact(*h.ImpactPerUnit); err != nil {
			return err
		}
	}
	return nil
}

// Comparisons are written so that NaN fails them.
func validateTarget(v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return &FieldError{Field: "targetPerPeriod", Message: "targetPerPeriod must be a finite number greater than 0"}
	}
	return nil
}

func validateImpact(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &FieldError{Field: "impactPerUnit", Message: "impactPerUnit must be a finite number"}
	}
	return nil
}

// FieldError describes an input field that fails a shape or range constraint.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
