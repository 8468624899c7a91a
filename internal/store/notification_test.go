package store

import (
	"testing"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

func setupNotificationTest(t *testing.T) (*NotificationStore, *model.Member) {
	t.Helper()
	db := newTestDB(t)
	members := NewMemberStore(db)
	m := seedMember(t, members, "Asha Verma", time.Now().UTC().AddDate(0, 1, 0))
	return NewNotificationStore(db), m
}

func TestNotificationCreateWithData(t *testing.T) {
	s, m := setupNotificationTest(t)

	end := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	days := 19
	fee := 50.0
	n, err := s.Create(&model.Notification{
		MemberID: m.ID,
		Title:    "Membership Renewal Reminder",
		Message:  "Your membership expires in 19 days.",
		Type:     model.NotifTypeMembershipRenewal,
		Data: &model.NotificationData{
			MembershipEndDate: &end,
			DaysUntilExpiry:   &days,
			MembershipFee:     &fee,
		},
	})
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}
	if n.IsRead {
		t.Error("new notification should be unread")
	}
	if n.Data == nil {
		t.Fatal("data not persisted")
	}
	if n.Data.DaysUntilExpiry == nil || *n.Data.DaysUntilExpiry != 19 {
		t.Errorf("days until expiry = %v, want 19", n.Data.DaysUntilExpiry)
	}
	if n.Data.MembershipFee == nil || *n.Data.MembershipFee != 50.0 {
		t.Errorf("fee = %v, want 50", n.Data.MembershipFee)
	}
}

func TestNotificationCreateWithoutData(t *testing.T) {
	s, m := setupNotificationTest(t)

	n, err := s.Create(&model.Notification{
		MemberID: m.ID,
		Title:    "Welcome",
		Message:  "Welcome to the gym!",
		Type:     model.NotifTypeInfo,
	})
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}
	if n.Data != nil {
		t.Errorf("data = %+v, want nil", n.Data)
	}
}

func TestNotificationListNewestFirst(t *testing.T) {
	s, m := setupNotificationTest(t)

	for _, title := range []string{"first", "second", "third"} {
		if _, err := s.Create(&model.Notification{
			MemberID: m.ID, Title: title, Message: "m", Type: model.NotifTypeInfo,
		}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	list, err := s.ListByMember(m.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("listed %d, want 3", len(list))
	}
	// Inserts land in the same second; id breaks the tie
	if list[0].Title != "third" || list[2].Title != "first" {
		t.Errorf("order = [%s %s %s], want newest first", list[0].Title, list[1].Title, list[2].Title)
	}
}

func TestNotificationMarkReadIdempotent(t *testing.T) {
	s, m := setupNotificationTest(t)

	n, err := s.Create(&model.Notification{
		MemberID: m.ID, Title: "t", Message: "m", Type: model.NotifTypeInfo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.MarkRead(n.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	// Second mark is a no-op, not an error
	if err := s.MarkRead(n.ID); err != nil {
		t.Fatalf("second mark read: %v", err)
	}

	got, err := s.GetByID(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsRead {
		t.Error("notification not marked read")
	}
}

func TestNotificationUnreadCount(t *testing.T) {
	s, m := setupNotificationTest(t)

	var ids []int64
	for i := 0; i < 3; i++ {
		n, err := s.Create(&model.Notification{
			MemberID: m.ID, Title: "t", Message: "m", Type: model.NotifTypeWarning,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, n.ID)
	}

	count, err := s.CountUnread(m.ID)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if count != 3 {
		t.Errorf("unread = %d, want 3", count)
	}

	if err := s.MarkRead(ids[0]); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	count, err = s.CountUnread(m.ID)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if count != 2 {
		t.Errorf("unread after read = %d, want 2", count)
	}
}

func TestNotificationDelete(t *testing.T) {
	s, m := setupNotificationTest(t)

	n, err := s.Create(&model.Notification{
		MemberID: m.ID, Title: "t", Message: "m", Type: model.NotifTypeInfo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(n.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.GetByID(n.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("notification still present after delete")
	}
}
