package store

import (
	"testing"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

func setupProgressTest(t *testing.T) (*ProgressStore, *model.Member) {
	t.Helper()
	db := newTestDB(t)
	m := seedMember(t, NewMemberStore(db), "Asha Verma", time.Now().UTC().AddDate(0, 1, 0))
	return NewProgressStore(db), m
}

func TestProgressCreateRoundTripsMeasurements(t *testing.T) {
	s, m := setupProgressTest(t)

	bodyFat := 22.5
	p, err := s.Create(&model.ProgressLog{
		MemberID: m.ID,
		Date:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		WeightKg: 71.4,
		BodyFat:  &bodyFat,
		Measurements: model.Measurements{
			Chest: 98, Waist: 82, Biceps: 33.5,
		},
		Notes: "after cut",
	})
	if err != nil {
		t.Fatalf("create progress log: %v", err)
	}
	if p.WeightKg != 71.4 {
		t.Errorf("weight = %v, want 71.4", p.WeightKg)
	}
	if p.BodyFat == nil || *p.BodyFat != 22.5 {
		t.Errorf("body fat = %v, want 22.5", p.BodyFat)
	}
	if p.Measurements.Chest != 98 || p.Measurements.Biceps != 33.5 {
		t.Errorf("measurements = %+v, not round-tripped", p.Measurements)
	}
	if p.MuscleMass != nil {
		t.Errorf("muscle mass = %v, want nil", p.MuscleMass)
	}
}

func TestProgressListNewestFirst(t *testing.T) {
	s, m := setupProgressTest(t)

	dates := []time.Time{
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		if _, err := s.Create(&model.ProgressLog{
			MemberID: m.ID, Date: d, WeightKg: 70 + float64(i),
		}); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}

	list, err := s.ListByMember(m.ID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("listed %d logs, want 3", len(list))
	}
	if !list[0].Date.Equal(dates[1]) {
		t.Errorf("first log date = %v, want %v", list[0].Date, dates[1])
	}
}

func TestProgressDelete(t *testing.T) {
	s, m := setupProgressTest(t)

	p, err := s.Create(&model.ProgressLog{
		MemberID: m.ID, Date: time.Now().UTC(), WeightKg: 70,
	})
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("delete log: %v", err)
	}
	got, err := s.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("log still present after delete")
	}
}
