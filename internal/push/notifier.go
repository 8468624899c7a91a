package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mjcarver/gymledger/internal/model"
)

// SubscriptionStore is the slice of the push store the notifier needs.
type SubscriptionStore interface {
	ListByMember(memberID int64) ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

// Notifier fans a notification out to every device a member has registered.
// It implements the renewal dispatcher's Delivery interface.
type Notifier struct {
	service *Service
	subs    SubscriptionStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs SubscriptionStore, logger *slog.Logger) *Notifier {
	return &Notifier{service: service, subs: subs, logger: logger}
}

// SendToMember pushes to all of a member's subscriptions. Expired
// subscriptions are pruned as they are discovered. An error is returned only
// when every device send failed; a member with no devices is not an error.
func (n *Notifier) SendToMember(ctx context.Context, memberID int64, title, message string) error {
	subs, err := n.subs.ListByMember(memberID)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload := Payload{Title: title, Body: message, Tag: fmt.Sprintf("member-%d", memberID)}
	attempted, failed := 0, 0
	for i := range subs {
		if err := n.service.Send(ctx, &subs[i], payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := n.subs.DeleteByEndpoint(subs[i].Endpoint); err != nil {
					n.logger.Warn("prune expired subscription", "member_id", memberID, "error", err)
				}
				continue
			}
			n.logger.Warn("push send", "member_id", memberID, "device", subs[i].DeviceName, "error", err)
			failed++
		}
		attempted++
	}

	if attempted > 0 && failed == attempted {
		return fmt.Errorf("all %d device sends failed", failed)
	}
	return nil
}
