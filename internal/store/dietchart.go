package store

import (
	"database/sql"
	"fmt"

	"github.com/mjcarver/gymledger/internal/model"
)

type DietChartStore struct {
	db *sql.DB
}

func NewDietChartStore(db *sql.DB) *DietChartStore {
	return &DietChartStore{db: db}
}

const dietChartCols = `id, member_id, name, description, goal, target_calories, start_date, end_date,
	meals, assigned_by, is_active, created_at, updated_at`

func scanDietChart(scanner interface{ Scan(...any) error }) (*model.DietChart, error) {
	var d model.DietChart
	var meals string
	var activeInt int
	err := scanner.Scan(&d.ID, &d.MemberID, &d.Name, &d.Description, &d.Goal, &d.TargetCalories,
		&d.StartDate, &d.EndDate, &meals, &d.AssignedBy, &activeInt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Meals = []byte(meals)
	d.IsActive = activeInt != 0
	return &d, nil
}

func (s *DietChartStore) Create(d *model.DietChart) (*model.DietChart, error) {
	meals := string(d.Meals)
	if meals == "" {
		meals = "[]"
	}
	result, err := s.db.Exec(
		`INSERT INTO diet_charts (member_id, name, description, goal, target_calories, start_date, end_date, meals, assigned_by, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.MemberID, d.Name, d.Description, d.Goal, d.TargetCalories, d.StartDate.UTC(), d.EndDate.UTC(), meals, d.AssignedBy, boolToInt(d.IsActive),
	)
	if err != nil {
		return nil, fmt.Errorf("insert diet chart: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *DietChartStore) GetByID(id int64) (*model.DietChart, error) {
	row := s.db.QueryRow(`SELECT `+dietChartCols+` FROM diet_charts WHERE id = ?`, id)
	d, err := scanDietChart(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query diet chart: %w", err)
	}
	return d, nil
}

func (s *DietChartStore) ListByMember(memberID int64) ([]model.DietChart, error) {
	rows, err := s.db.Query(
		`SELECT `+dietChartCols+` FROM diet_charts WHERE member_id = ? ORDER BY is_active DESC, start_date DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list diet charts: %w", err)
	}
	defer rows.Close()
	return collectDietCharts(rows)
}

func (s *DietChartStore) ListAll() ([]model.DietChart, error) {
	rows, err := s.db.Query(`SELECT ` + dietChartCols + ` FROM diet_charts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list diet charts: %w", err)
	}
	defer rows.Close()
	return collectDietCharts(rows)
}

func (s *DietChartStore) Update(id int64, d *model.DietChart) (*model.DietChart, error) {
	meals := string(d.Meals)
	if meals == "" {
		meals = "[]"
	}
	_, err := s.db.Exec(
		`UPDATE diet_charts SET name = ?, description = ?, goal = ?, target_calories = ?,
			start_date = ?, end_date = ?, meals = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		d.Name, d.Description, d.Goal, d.TargetCalories, d.StartDate.UTC(), d.EndDate.UTC(), meals, boolToInt(d.IsActive), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update diet chart: %w", err)
	}
	return s.GetByID(id)
}

func (s *DietChartStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM diet_charts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete diet chart: %w", err)
	}
	return nil
}

func collectDietCharts(rows *sql.Rows) ([]model.DietChart, error) {
	var charts []model.DietChart
	for rows.Next() {
		d, err := scanDietChart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan diet chart: %w", err)
		}
		charts = append(charts, *d)
	}
	return charts, rows.Err()
}
