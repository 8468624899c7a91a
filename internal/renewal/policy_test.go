package renewal

import (
	"strings"
	"testing"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func member(id int64, status string, end time.Time) model.Member {
	return model.Member{
		ID:                id,
		Name:              "Test Member",
		MembershipStatus:  status,
		MembershipFee:     50,
		MembershipEndDate: end,
	}
}

func TestDaysUntil(t *testing.T) {
	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{"exactly 30 days", testNow.AddDate(0, 0, 30), 30},
		{"exactly 7 days", testNow.AddDate(0, 0, 7), 7},
		{"same instant", testNow, 0},
		{"later today", testNow.Add(6 * time.Hour), 0},
		{"partial day floors down", testNow.Add(36 * time.Hour), 1},
		{"an hour past", testNow.Add(-time.Hour), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntil(testNow, tc.end); got != tc.want {
				t.Errorf("DaysUntil = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEvaluateThirtyDayBoundary(t *testing.T) {
	members := []model.Member{member(1, model.MembershipActive, testNow.AddDate(0, 0, 30))}

	got := Evaluate(testNow, members, DefaultWindows)
	if len(got) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(got))
	}
	if got[0].DaysUntilExpiry != 30 {
		t.Errorf("days = %d, want 30", got[0].DaysUntilExpiry)
	}
	if got[0].Urgency != UrgencyWarning {
		t.Errorf("urgency = %q, want warning", got[0].Urgency)
	}
	if got[0].Window != 30 {
		t.Errorf("window = %d, want 30", got[0].Window)
	}
}

func TestEvaluateUrgentWindow(t *testing.T) {
	for days := 0; days <= 7; days++ {
		members := []model.Member{member(1, model.MembershipActive, testNow.AddDate(0, 0, days))}
		got := Evaluate(testNow, members, DefaultWindows)
		if len(got) != 1 {
			t.Fatalf("days=%d: expected 1 reminder, got %d", days, len(got))
		}
		if got[0].Urgency != UrgencyUrgent {
			t.Errorf("days=%d: urgency = %q, want urgent", days, got[0].Urgency)
		}
		if got[0].Window != 7 {
			t.Errorf("days=%d: window = %d, want 7", days, got[0].Window)
		}
	}

	// 8 days is outside the inner window
	members := []model.Member{member(1, model.MembershipActive, testNow.AddDate(0, 0, 8))}
	got := Evaluate(testNow, members, DefaultWindows)
	if len(got) != 1 || got[0].Urgency != UrgencyWarning {
		t.Errorf("8 days should be a warning, got %+v", got)
	}
}

func TestEvaluateExpiredToday(t *testing.T) {
	members := []model.Member{member(1, model.MembershipActive, testNow)}

	got := Evaluate(testNow, members, DefaultWindows)
	if len(got) != 1 {
		t.Fatalf("expected member expiring today to be included, got %d reminders", len(got))
	}
	if got[0].DaysUntilExpiry != 0 {
		t.Errorf("days = %d, want 0", got[0].DaysUntilExpiry)
	}

	_, message := Message(got[0])
	if !strings.HasPrefix(message, "Expired today") {
		t.Errorf("message = %q, want prefix %q", message, "Expired today")
	}
}

func TestEvaluateExclusions(t *testing.T) {
	members := []model.Member{
		member(1, model.MembershipExpired, testNow.AddDate(0, 0, 5)), // already expired
		member(2, model.MembershipActive, testNow.AddDate(0, 0, 31)), // outside outer window
		member(3, model.MembershipActive, testNow.AddDate(0, 0, -2)), // past the end date
	}

	got := Evaluate(testNow, members, DefaultWindows)
	if len(got) != 0 {
		t.Errorf("expected no reminders, got %d", len(got))
	}
}

func TestEvaluateExampleScenario(t *testing.T) {
	members := []model.Member{
		member(1, model.MembershipActive, testNow.AddDate(0, 0, 5)),
		member(2, model.MembershipActive, testNow.AddDate(0, 0, 40)),
	}

	got := Evaluate(testNow, members, DefaultWindows)
	if len(got) != 1 {
		t.Fatalf("expected only member 1, got %d reminders", len(got))
	}
	r := got[0]
	if r.Member.ID != 1 {
		t.Errorf("member id = %d, want 1", r.Member.ID)
	}
	if r.DaysUntilExpiry != 5 {
		t.Errorf("days = %d, want 5", r.DaysUntilExpiry)
	}
	if r.Urgency != UrgencyUrgent {
		t.Errorf("urgency = %q, want urgent", r.Urgency)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	members := []model.Member{member(1, model.MembershipActive, testNow.AddDate(0, 0, 10))}

	first := Evaluate(testNow, members, DefaultWindows)
	second := Evaluate(testNow, members, DefaultWindows)
	if len(first) != len(second) {
		t.Fatalf("repeated evaluation differs: %d vs %d", len(first), len(second))
	}
	if members[0].MembershipStatus != model.MembershipActive {
		t.Error("input slice was mutated")
	}
}

func TestMessageIncludesFee(t *testing.T) {
	r := Reminder{Member: member(1, model.MembershipActive, testNow.AddDate(0, 0, 5)), DaysUntilExpiry: 5, Urgency: UrgencyUrgent, Window: 7}

	title, message := Message(r)
	if title == "" {
		t.Error("empty title")
	}
	if !strings.Contains(message, "5 days") {
		t.Errorf("message %q missing day count", message)
	}
	if !strings.Contains(message, "$50.00") {
		t.Errorf("message %q missing fee", message)
	}

	r.DaysUntilExpiry = 1
	_, message = Message(r)
	if !strings.Contains(message, "tomorrow") {
		t.Errorf("message %q should use singular form", message)
	}
}
