package model

import (
	"encoding/json"
	"time"
)

// Diet chart goal constants
const (
	DietWeightLoss  = "weight_loss"
	DietMuscleGain  = "muscle_gain"
	DietMaintenance = "maintenance"
	DietHealth      = "health"
)

// DietChart is an admin-assigned meal plan. Meals are stored as an opaque JSON
// document, same as fitness plan templates.
type DietChart struct {
	ID             int64           `json:"id"`
	MemberID       int64           `json:"member_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Goal           string          `json:"goal"`
	TargetCalories int             `json:"target_calories"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Meals          json.RawMessage `json:"meals"`
	AssignedBy     *int64          `json:"assigned_by,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
