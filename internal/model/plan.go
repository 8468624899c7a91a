package model

import (
	"encoding/json"
	"time"
)

// Fitness plan goal constants
const (
	GoalWeightLoss     = "weight_loss"
	GoalMuscleGain     = "muscle_gain"
	GoalEndurance      = "endurance"
	GoalFlexibility    = "flexibility"
	GoalGeneralFitness = "general_fitness"
)

// FitnessPlan is an admin-assigned workout program. The weekly templates are
// stored as an opaque JSON document; the server never interprets them.
type FitnessPlan struct {
	ID               int64           `json:"id"`
	MemberID         int64           `json:"member_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Goal             string          `json:"goal"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	WorkoutTemplates json.RawMessage `json:"workout_templates"`
	AssignedBy       *int64          `json:"assigned_by,omitempty"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
