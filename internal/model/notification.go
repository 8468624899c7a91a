package model

import "time"

// Notification type constants
const (
	NotifTypeInfo              = "info"
	NotifTypeWarning           = "warning"
	NotifTypeSuccess           = "success"
	NotifTypeError             = "error"
	NotifTypeMembershipRenewal = "membership_renewal"
)

// NotificationData carries structured renewal context alongside the
// human-readable message.
type NotificationData struct {
	MembershipEndDate *time.Time `json:"membership_end_date,omitempty"`
	DaysUntilExpiry   *int       `json:"days_until_expiry,omitempty"`
	MembershipFee     *float64   `json:"membership_fee,omitempty"`
}

type Notification struct {
	ID        int64             `json:"id"`
	MemberID  int64             `json:"member_id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Type      string            `json:"type"`
	IsRead    bool              `json:"is_read"`
	Data      *NotificationData `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
