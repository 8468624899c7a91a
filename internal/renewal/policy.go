package renewal

import (
	"fmt"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

// Urgency classifies how close a membership is to expiring.
type Urgency string

const (
	UrgencyWarning Urgency = "warning"
	UrgencyUrgent  Urgency = "urgent"
)

// Windows holds the reminder thresholds in days before expiry. Inner must be
// smaller than Outer.
type Windows struct {
	Outer int
	Inner int
}

// DefaultWindows matches the admin console defaults: a 30-day heads-up and a
// 7-day urgent reminder.
var DefaultWindows = Windows{Outer: 30, Inner: 7}

// Reminder is one qualifying member with the computed expiry context.
type Reminder struct {
	Member          model.Member
	DaysUntilExpiry int
	Urgency         Urgency
	// Window is the narrowest threshold the member currently falls in. It
	// keys reminder dedup, so a member passing from the outer into the inner
	// window gets a second, urgent reminder but never a repeat of either.
	Window int
}

// DaysUntil returns the number of whole days from now until end, floored.
func DaysUntil(now, end time.Time) int {
	d := end.Sub(now)
	days := int(d.Hours() / 24)
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// Evaluate selects members whose membership end date falls within the reminder
// windows. Pure: no clock reads, no side effects. Members already marked
// expired are skipped, as are memberships past their end date. A membership
// ending today (0 days) is still included, as "expired today".
func Evaluate(now time.Time, members []model.Member, w Windows) []Reminder {
	var out []Reminder
	for _, m := range members {
		if m.MembershipStatus == model.MembershipExpired {
			continue
		}
		days := DaysUntil(now, m.MembershipEndDate)
		if days < 0 || days > w.Outer {
			continue
		}

		r := Reminder{
			Member:          m,
			DaysUntilExpiry: days,
			Urgency:         UrgencyWarning,
			Window:          w.Outer,
		}
		if days <= w.Inner {
			r.Urgency = UrgencyUrgent
			r.Window = w.Inner
		}
		out = append(out, r)
	}
	return out
}

// Message builds the notification title and body for a reminder.
func Message(r Reminder) (title, message string) {
	title = "Membership Renewal Reminder"
	fee := fmt.Sprintf("Renewal fee: $%.2f.", r.Member.MembershipFee)

	switch {
	case r.DaysUntilExpiry == 0:
		message = "Expired today. Renew now to keep your gym access. " + fee
	case r.DaysUntilExpiry == 1:
		message = "Your membership expires tomorrow. " + fee
	default:
		message = fmt.Sprintf("Your membership expires in %d days. %s", r.DaysUntilExpiry, fee)
	}
	return title, message
}
