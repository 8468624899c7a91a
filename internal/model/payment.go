package model

import "time"

// Payment status values
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Payment records a membership fee checkout. Reference is our own identifier
// passed to Stripe so the webhook can be correlated even if the session id is
// lost.
type Payment struct {
	ID              int64      `json:"id"`
	MemberID        int64      `json:"member_id"`
	Reference       string     `json:"reference"`
	StripeSessionID string     `json:"stripe_session_id"`
	Amount          float64    `json:"amount"`
	Status          string     `json:"status"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
