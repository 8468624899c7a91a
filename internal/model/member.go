package model

import "time"

// Membership status values
const (
	MembershipActive  = "active"
	MembershipExpired = "expired"
	MembershipPending = "pending"
)

// Membership fee status values
const (
	FeePaid    = "paid"
	FeePending = "pending"
	FeeOverdue = "overdue"
)

type Member struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Gender              string     `json:"gender"`
	HeightCm            float64    `json:"height_cm"`
	WeightKg            float64    `json:"weight_kg"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Address             string     `json:"address"`
	EmergencyName       string     `json:"emergency_name,omitempty"`
	EmergencyPhone      string     `json:"emergency_phone,omitempty"`
	EmergencyRelation   string     `json:"emergency_relation,omitempty"`
	MembershipStatus    string     `json:"membership_status"`
	MembershipFee       float64    `json:"membership_fee"`
	MembershipFeeStatus string     `json:"membership_fee_status"`
	MembershipStartDate time.Time  `json:"membership_start_date"`
	MembershipEndDate   time.Time  `json:"membership_end_date"`
	LastPaymentDate     *time.Time `json:"last_payment_date,omitempty"`
	NextPaymentDate     *time.Time `json:"next_payment_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
