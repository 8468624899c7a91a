package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mjcarver/gymledger/internal/database"
	"github.com/mjcarver/gymledger/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedMember creates a member with the given membership end date.
func seedMember(t *testing.T, s *MemberStore, name string, endDate time.Time) *model.Member {
	t.Helper()
	m, err := s.Create(&model.Member{
		Name:                name,
		Gender:              "other",
		MembershipStatus:    model.MembershipActive,
		MembershipFee:       50,
		MembershipFeeStatus: model.FeePaid,
		MembershipStartDate: endDate.AddDate(0, -1, 0),
		MembershipEndDate:   endDate,
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func TestMemberCRUD(t *testing.T) {
	s := NewMemberStore(newTestDB(t))

	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	m := seedMember(t, s, "Asha Verma", end)
	if m.ID == 0 {
		t.Fatal("expected non-zero id")
	}
	if m.Name != "Asha Verma" {
		t.Errorf("name = %q, want %q", m.Name, "Asha Verma")
	}
	if !m.MembershipEndDate.Equal(end) {
		t.Errorf("end date = %v, want %v", m.MembershipEndDate, end)
	}

	// Get
	got, err := s.GetByID(m.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got == nil || got.Name != "Asha Verma" {
		t.Fatalf("got = %+v, want Asha Verma", got)
	}

	// Update
	got.Phone = "555-0110"
	got.MembershipFeeStatus = model.FeeOverdue
	updated, err := s.Update(m.ID, got)
	if err != nil {
		t.Fatalf("update member: %v", err)
	}
	if updated.Phone != "555-0110" {
		t.Errorf("phone = %q, want 555-0110", updated.Phone)
	}
	if updated.MembershipFeeStatus != model.FeeOverdue {
		t.Errorf("fee status = %q, want %q", updated.MembershipFeeStatus, model.FeeOverdue)
	}

	// List
	seedMember(t, s, "Ben Ortiz", end)
	members, err := s.List()
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("listed %d members, want 2", len(members))
	}
	if members[0].Name != "Asha Verma" {
		t.Errorf("list not ordered by name: first = %q", members[0].Name)
	}

	// Delete
	if err := s.Delete(m.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	got, err = s.GetByID(m.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("member still present after delete")
	}
}

func TestMemberDeleteCascadesOwnedRecords(t *testing.T) {
	db := newTestDB(t)
	ms := NewMemberStore(db)
	m := seedMember(t, ms, "Asha Verma", time.Now().UTC().AddDate(0, 1, 0))

	if _, err := NewWorkoutStore(db).Create(&model.Workout{
		MemberID: m.ID, Date: time.Now().UTC(), DurationMinutes: 30, Type: model.WorkoutCardio,
	}); err != nil {
		t.Fatalf("create workout: %v", err)
	}
	if _, err := NewNotificationStore(db).Create(&model.Notification{
		MemberID: m.ID, Title: "t", Message: "m", Type: model.NotifTypeInfo,
	}); err != nil {
		t.Fatalf("create notification: %v", err)
	}
	if err := NewReminderStore(db).RecordSent(m.ID, 30, m.MembershipEndDate); err != nil {
		t.Fatalf("record reminder: %v", err)
	}

	if err := ms.Delete(m.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}

	for _, table := range []string{"workouts", "notifications", "renewal_reminders"} {
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE member_id = ?`, m.ID).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%d %s rows survived member delete", count, table)
		}
	}
}

func TestGetMissingMemberReturnsNil(t *testing.T) {
	s := NewMemberStore(newTestDB(t))
	got, err := s.GetByID(999)
	if err != nil {
		t.Fatalf("get missing member: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestRecordPaymentExtendsFromEndDate(t *testing.T) {
	s := NewMemberStore(newTestDB(t))

	paidAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	end := paidAt.AddDate(0, 0, 10) // 10 days of membership left
	m := seedMember(t, s, "Asha Verma", end)

	period := 30 * 24 * time.Hour
	updated, err := s.RecordPayment(m.ID, paidAt, period)
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	// Paying early stacks onto the remaining time
	wantEnd := end.Add(period)
	if !updated.MembershipEndDate.Equal(wantEnd) {
		t.Errorf("end date = %v, want %v", updated.MembershipEndDate, wantEnd)
	}
	if updated.MembershipStatus != model.MembershipActive {
		t.Errorf("status = %q, want active", updated.MembershipStatus)
	}
	if updated.MembershipFeeStatus != model.FeePaid {
		t.Errorf("fee status = %q, want paid", updated.MembershipFeeStatus)
	}
	if updated.LastPaymentDate == nil || !updated.LastPaymentDate.Equal(paidAt) {
		t.Errorf("last payment = %v, want %v", updated.LastPaymentDate, paidAt)
	}
}

func TestRecordPaymentAfterExpiry(t *testing.T) {
	s := NewMemberStore(newTestDB(t))

	paidAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	end := paidAt.AddDate(0, 0, -15) // lapsed two weeks ago
	m := seedMember(t, s, "Ben Ortiz", end)

	period := 30 * 24 * time.Hour
	updated, err := s.RecordPayment(m.ID, paidAt, period)
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}

	// A lapsed membership restarts from the payment date, not the old end
	wantEnd := paidAt.Add(period)
	if !updated.MembershipEndDate.Equal(wantEnd) {
		t.Errorf("end date = %v, want %v", updated.MembershipEndDate, wantEnd)
	}
}

func TestRecordPaymentMissingMember(t *testing.T) {
	s := NewMemberStore(newTestDB(t))
	if _, err := s.RecordPayment(42, time.Now().UTC(), time.Hour); err == nil {
		t.Fatal("expected error for missing member")
	}
}
