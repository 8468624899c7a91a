package renewal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/mjcarver/gymledger/internal/model"
)

// NotificationStore persists notification records.
type NotificationStore interface {
	Create(n *model.Notification) (*model.Notification, error)
}

// ReminderLog is the persisted dedup ledger for sent reminders.
type ReminderLog interface {
	WasSent(memberID int64, windowDays int, endDate time.Time) (bool, error)
	RecordSent(memberID int64, windowDays int, endDate time.Time) error
}

// Delivery pushes a notification to a member's devices. Implementations are
// best-effort; the persisted record is the source of truth.
type Delivery interface {
	SendToMember(ctx context.Context, memberID int64, title, message string) error
}

// Result reports the outcome of a dispatch pass.
type Result struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Dispatcher turns evaluated reminders into persisted notifications and
// device pushes.
type Dispatcher struct {
	notifications NotificationStore
	log           ReminderLog
	delivery      Delivery // nil means record-only, no device push
	logger        *slog.Logger
}

func NewDispatcher(ns NotificationStore, rl ReminderLog, delivery Delivery, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifications: ns,
		log:           rl,
		delivery:      delivery,
		logger:        logger,
	}
}

// Dispatch processes reminders one by one. Each member is independent: a
// persistence failure is logged and counted but never aborts the rest of the
// batch. The returned error is non-nil only when every attempted send failed.
func (d *Dispatcher) Dispatch(ctx context.Context, reminders []Reminder) (Result, error) {
	var result Result
	var errs error

	for _, r := range reminders {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sent, err := d.log.WasSent(r.Member.ID, r.Window, r.Member.MembershipEndDate)
		if err != nil {
			d.logger.Error("check reminder sent", "member_id", r.Member.ID, "error", err)
			result.Failed++
			errs = multierr.Append(errs, err)
			continue
		}
		if sent {
			result.Skipped++
			continue
		}

		title, message := Message(r)
		days := r.DaysUntilExpiry
		fee := r.Member.MembershipFee
		endDate := r.Member.MembershipEndDate

		n := &model.Notification{
			MemberID: r.Member.ID,
			Title:    title,
			Message:  message,
			Type:     model.NotifTypeMembershipRenewal,
			Data: &model.NotificationData{
				MembershipEndDate: &endDate,
				DaysUntilExpiry:   &days,
				MembershipFee:     &fee,
			},
		}
		if _, err := d.notifications.Create(n); err != nil {
			d.logger.Error("create renewal notification", "member_id", r.Member.ID, "error", err)
			result.Failed++
			errs = multierr.Append(errs, fmt.Errorf("member %d: %w", r.Member.ID, err))
			continue
		}

		if err := d.log.RecordSent(r.Member.ID, r.Window, r.Member.MembershipEndDate); err != nil {
			// The notification exists; a missing dedup record only risks a
			// duplicate on the next pass. Log and move on.
			d.logger.Error("record reminder sent", "member_id", r.Member.ID, "error", err)
		}

		if d.delivery != nil {
			if err := d.delivery.SendToMember(ctx, r.Member.ID, title, message); err != nil {
				d.logger.Warn("push renewal reminder", "member_id", r.Member.ID, "error", err)
			}
		}

		result.Sent++
	}

	if result.Sent == 0 && result.Failed > 0 {
		return result, fmt.Errorf("all %d renewal sends failed: %w", result.Failed, errs)
	}
	return result, nil
}
