package model

import "time"

// Workout type constants
const (
	WorkoutCardio      = "cardio"
	WorkoutStrength    = "strength"
	WorkoutFlexibility = "flexibility"
	WorkoutMixed       = "mixed"
)

type Workout struct {
	ID              int64      `json:"id"`
	MemberID        int64      `json:"member_id"`
	Date            time.Time  `json:"date"`
	DurationMinutes int        `json:"duration_minutes"`
	Type            string     `json:"type"`
	Notes           string     `json:"notes"`
	CaloriesBurned  *int       `json:"calories_burned,omitempty"`
	Exercises       []Exercise `json:"exercises"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Exercise struct {
	ID              int64    `json:"id"`
	WorkoutID       int64    `json:"workout_id"`
	Name            string   `json:"name"`
	Sets            int      `json:"sets"`
	Reps            int      `json:"reps"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	RestSeconds     *int     `json:"rest_seconds,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}
