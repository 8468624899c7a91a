package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

func setupDietChartTest(t *testing.T) (*DietChartStore, *model.Member) {
	t.Helper()
	db := newTestDB(t)
	m := seedMember(t, NewMemberStore(db), "Asha Verma", time.Now().UTC().AddDate(0, 1, 0))
	return NewDietChartStore(db), m
}

func TestDietChartCreateRoundTripsMeals(t *testing.T) {
	s, m := setupDietChartTest(t)

	meals := json.RawMessage(`[{"name":"breakfast","calories":450}]`)
	d, err := s.Create(&model.DietChart{
		MemberID:       m.ID,
		Name:           "Cutting plan",
		Goal:           model.DietWeightLoss,
		TargetCalories: 1800,
		StartDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Meals:          meals,
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create diet chart: %v", err)
	}
	if string(d.Meals) != string(meals) {
		t.Errorf("meals = %s, want %s", d.Meals, meals)
	}
	if d.TargetCalories != 1800 {
		t.Errorf("target calories = %d, want 1800", d.TargetCalories)
	}
}

func TestDietChartUpdateAndDelete(t *testing.T) {
	s, m := setupDietChartTest(t)

	d, err := s.Create(&model.DietChart{
		MemberID:       m.ID,
		Name:           "Maintenance",
		Goal:           model.DietMaintenance,
		TargetCalories: 2200,
		StartDate:      time.Now().UTC(),
		EndDate:        time.Now().UTC().AddDate(0, 1, 0),
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create diet chart: %v", err)
	}

	updated, err := s.Update(d.ID, &model.DietChart{
		Name:           "Maintenance v2",
		Goal:           model.DietMaintenance,
		TargetCalories: 2400,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("update diet chart: %v", err)
	}
	if updated.TargetCalories != 2400 {
		t.Errorf("target calories = %d, want 2400", updated.TargetCalories)
	}

	if err := s.Delete(d.ID); err != nil {
		t.Fatalf("delete diet chart: %v", err)
	}
	got, err := s.GetByID(d.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("diet chart still present after delete")
	}
}
