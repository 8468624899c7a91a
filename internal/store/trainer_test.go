package store

import (
	"testing"

	"github.com/mjcarver/gymledger/internal/model"
)

func TestTrainerCreateRoundTripsSpecializations(t *testing.T) {
	s := NewTrainerStore(newTestDB(t))

	tr, err := s.Create(&model.Trainer{
		Name:            "Ravi Iyer",
		Email:           "ravi@example.com",
		Phone:           "555-0100",
		Specializations: []string{"strength", "rehab"},
		Bio:             "Ten years coaching powerlifters.",
	})
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}
	if len(tr.Specializations) != 2 || tr.Specializations[0] != "strength" {
		t.Errorf("specializations = %v, not round-tripped", tr.Specializations)
	}
}

func TestTrainerListOrderedByName(t *testing.T) {
	s := NewTrainerStore(newTestDB(t))

	for _, name := range []string{"Zoya", "Amit"} {
		if _, err := s.Create(&model.Trainer{Name: name, Email: name + "@example.com"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("list trainers: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("listed %d trainers, want 2", len(list))
	}
	if list[0].Name != "Amit" {
		t.Errorf("first trainer = %q, want Amit", list[0].Name)
	}
}

func TestTrainerUpdateAndDelete(t *testing.T) {
	s := NewTrainerStore(newTestDB(t))

	tr, err := s.Create(&model.Trainer{Name: "Ravi", Email: "ravi@example.com"})
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}

	updated, err := s.Update(tr.ID, &model.Trainer{
		Name:            "Ravi Iyer",
		Email:           "ravi@example.com",
		Specializations: []string{"cardio"},
	})
	if err != nil {
		t.Fatalf("update trainer: %v", err)
	}
	if updated.Name != "Ravi Iyer" || len(updated.Specializations) != 1 {
		t.Errorf("updated = %+v, want new name and one specialization", updated)
	}

	if err := s.Delete(tr.ID); err != nil {
		t.Fatalf("delete trainer: %v", err)
	}
	got, err := s.GetByID(tr.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("trainer still present after delete")
	}
}
