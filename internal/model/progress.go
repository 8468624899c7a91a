package model

import "time"

// Measurements holds body measurements in centimeters.
type Measurements struct {
	Chest  float64 `json:"chest"`
	Waist  float64 `json:"waist"`
	Hips   float64 `json:"hips"`
	Biceps float64 `json:"biceps"`
	Thighs float64 `json:"thighs"`
	Calves float64 `json:"calves"`
	Neck   float64 `json:"neck"`
}

type ProgressLog struct {
	ID           int64        `json:"id"`
	MemberID     int64        `json:"member_id"`
	Date         time.Time    `json:"date"`
	WeightKg     float64      `json:"weight_kg"`
	BodyFat      *float64     `json:"body_fat,omitempty"`
	MuscleMass   *float64     `json:"muscle_mass,omitempty"`
	Measurements Measurements `json:"measurements"`
	Notes        string       `json:"notes"`
	CreatedAt    time.Time    `json:"created_at"`
}
