package renewal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

type fakeNotificationStore struct {
	created []model.Notification
	failFor map[int64]bool
}

func (f *fakeNotificationStore) Create(n *model.Notification) (*model.Notification, error) {
	if f.failFor[n.MemberID] {
		return nil, errors.New("storage unavailable")
	}
	saved := *n
	saved.ID = int64(len(f.created) + 1)
	f.created = append(f.created, saved)
	return &saved, nil
}

type fakeReminderLog struct {
	sent map[string]bool
}

func newFakeReminderLog() *fakeReminderLog {
	return &fakeReminderLog{sent: make(map[string]bool)}
}

func (f *fakeReminderLog) key(memberID int64, window int, end time.Time) string {
	return fmt.Sprintf("%d/%d/%s", memberID, window, end.Format(time.RFC3339))
}

func (f *fakeReminderLog) WasSent(memberID int64, window int, end time.Time) (bool, error) {
	return f.sent[f.key(memberID, window, end)], nil
}

func (f *fakeReminderLog) RecordSent(memberID int64, window int, end time.Time) error {
	f.sent[f.key(memberID, window, end)] = true
	return nil
}

func testReminders(t *testing.T, n int) []Reminder {
	t.Helper()
	var members []model.Member
	for i := 1; i <= n; i++ {
		members = append(members, member(int64(i), model.MembershipActive, testNow.AddDate(0, 0, 5+i)))
	}
	return Evaluate(testNow, members, DefaultWindows)
}

func TestDispatchCreatesRecords(t *testing.T) {
	ns := &fakeNotificationStore{}
	d := NewDispatcher(ns, newFakeReminderLog(), nil, slog.Default())

	reminders := testReminders(t, 3)
	result, err := d.Dispatch(context.Background(), reminders)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Sent != 3 {
		t.Errorf("sent = %d, want 3", result.Sent)
	}
	if len(ns.created) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(ns.created))
	}

	for i, n := range ns.created {
		if n.Type != model.NotifTypeMembershipRenewal {
			t.Errorf("notification %d type = %q", i, n.Type)
		}
		if n.Data == nil || n.Data.DaysUntilExpiry == nil || n.Data.MembershipFee == nil || n.Data.MembershipEndDate == nil {
			t.Errorf("notification %d missing structured data", i)
		}
		if n.IsRead {
			t.Errorf("notification %d created read", i)
		}
	}
}

func TestDispatchDeduplicates(t *testing.T) {
	ns := &fakeNotificationStore{}
	log := newFakeReminderLog()
	d := NewDispatcher(ns, log, nil, slog.Default())

	reminders := testReminders(t, 2)

	if _, err := d.Dispatch(context.Background(), reminders); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	result, err := d.Dispatch(context.Background(), reminders)
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}

	if result.Sent != 0 || result.Skipped != 2 {
		t.Errorf("second pass sent=%d skipped=%d, want 0/2", result.Sent, result.Skipped)
	}
	if len(ns.created) != 2 {
		t.Errorf("expected 2 notifications after both passes, got %d", len(ns.created))
	}
}

func TestDispatchReArmsOnNewEndDate(t *testing.T) {
	ns := &fakeNotificationStore{}
	log := newFakeReminderLog()
	d := NewDispatcher(ns, log, nil, slog.Default())

	m := member(1, model.MembershipActive, testNow.AddDate(0, 0, 20))
	first := Evaluate(testNow, []model.Member{m}, DefaultWindows)
	if _, err := d.Dispatch(context.Background(), first); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	// Membership renewed: new end date falls in the window again later
	m.MembershipEndDate = testNow.AddDate(0, 0, 25)
	second := Evaluate(testNow, []model.Member{m}, DefaultWindows)
	result, err := d.Dispatch(context.Background(), second)
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if result.Sent != 1 {
		t.Errorf("sent = %d, want 1 after end date change", result.Sent)
	}
}

func TestDispatchPartialFailureContinues(t *testing.T) {
	ns := &fakeNotificationStore{failFor: map[int64]bool{2: true}}
	d := NewDispatcher(ns, newFakeReminderLog(), nil, slog.Default())

	reminders := testReminders(t, 3)
	result, err := d.Dispatch(context.Background(), reminders)
	if err != nil {
		t.Fatalf("partial failure should not return an error, got %v", err)
	}
	if result.Sent != 2 || result.Failed != 1 {
		t.Errorf("sent=%d failed=%d, want 2/1", result.Sent, result.Failed)
	}

	for _, n := range ns.created {
		if n.MemberID == 2 {
			t.Error("failed member should have no record")
		}
	}
}

func TestDispatchTotalFailureEscalates(t *testing.T) {
	ns := &fakeNotificationStore{failFor: map[int64]bool{1: true, 2: true}}
	d := NewDispatcher(ns, newFakeReminderLog(), nil, slog.Default())

	reminders := testReminders(t, 2)
	result, err := d.Dispatch(context.Background(), reminders)
	if err == nil {
		t.Fatal("expected aggregate error when every send fails")
	}
	if result.Sent != 0 || result.Failed != 2 {
		t.Errorf("sent=%d failed=%d, want 0/2", result.Sent, result.Failed)
	}
}

type fakeDelivery struct {
	sent []int64
	err  error
}

func (f *fakeDelivery) SendToMember(_ context.Context, memberID int64, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, memberID)
	return nil
}

func TestDispatchDeliveryIsBestEffort(t *testing.T) {
	ns := &fakeNotificationStore{}
	delivery := &fakeDelivery{err: errors.New("push endpoint down")}
	d := NewDispatcher(ns, newFakeReminderLog(), delivery, slog.Default())

	reminders := testReminders(t, 2)
	result, err := d.Dispatch(context.Background(), reminders)
	if err != nil {
		t.Fatalf("delivery failure must not fail the batch: %v", err)
	}
	if result.Sent != 2 {
		t.Errorf("sent = %d, want 2", result.Sent)
	}
	if len(ns.created) != 2 {
		t.Errorf("records = %d, want 2", len(ns.created))
	}
}

func TestDispatchHonorsCancellation(t *testing.T) {
	ns := &fakeNotificationStore{}
	d := NewDispatcher(ns, newFakeReminderLog(), nil, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Dispatch(ctx, testReminders(t, 3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(ns.created) != 0 {
		t.Errorf("cancelled dispatch created %d records", len(ns.created))
	}
}
