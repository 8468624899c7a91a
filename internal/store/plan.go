package store

import (
	"database/sql"
	"fmt"

	"github.com/mjcarver/gymledger/internal/model"
)

type PlanStore struct {
	db *sql.DB
}

func NewPlanStore(db *sql.DB) *PlanStore {
	return &PlanStore{db: db}
}

const planCols = `id, member_id, name, description, goal, start_date, end_date,
	workout_templates, assigned_by, is_active, created_at, updated_at`

func scanPlan(scanner interface{ Scan(...any) error }) (*model.FitnessPlan, error) {
	var p model.FitnessPlan
	var templates string
	var activeInt int
	err := scanner.Scan(&p.ID, &p.MemberID, &p.Name, &p.Description, &p.Goal,
		&p.StartDate, &p.EndDate, &templates, &p.AssignedBy, &activeInt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.WorkoutTemplates = []byte(templates)
	p.IsActive = activeInt != 0
	return &p, nil
}

func (s *PlanStore) Create(p *model.FitnessPlan) (*model.FitnessPlan, error) {
	templates := string(p.WorkoutTemplates)
	if templates == "" {
		templates = "[]"
	}
	result, err := s.db.Exec(
		`INSERT INTO fitness_plans (member_id, name, description, goal, start_date, end_date, workout_templates, assigned_by, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.MemberID, p.Name, p.Description, p.Goal, p.StartDate.UTC(), p.EndDate.UTC(), templates, p.AssignedBy, boolToInt(p.IsActive),
	)
	if err != nil {
		return nil, fmt.Errorf("insert fitness plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PlanStore) GetByID(id int64) (*model.FitnessPlan, error) {
	row := s.db.QueryRow(`SELECT `+planCols+` FROM fitness_plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fitness plan: %w", err)
	}
	return p, nil
}

func (s *PlanStore) ListByMember(memberID int64) ([]model.FitnessPlan, error) {
	rows, err := s.db.Query(
		`SELECT `+planCols+` FROM fitness_plans WHERE member_id = ? ORDER BY is_active DESC, start_date DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list fitness plans: %w", err)
	}
	defer rows.Close()
	return collectPlans(rows)
}

func (s *PlanStore) ListAll() ([]model.FitnessPlan, error) {
	rows, err := s.db.Query(`SELECT ` + planCols + ` FROM fitness_plans ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list fitness plans: %w", err)
	}
	defer rows.Close()
	return collectPlans(rows)
}

func (s *PlanStore) Update(id int64, p *model.FitnessPlan) (*model.FitnessPlan, error) {
	templates := string(p.WorkoutTemplates)
	if templates == "" {
		templates = "[]"
	}
	_, err := s.db.Exec(
		`UPDATE fitness_plans SET name = ?, description = ?, goal = ?, start_date = ?, end_date = ?,
			workout_templates = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Name, p.Description, p.Goal, p.StartDate.UTC(), p.EndDate.UTC(), templates, boolToInt(p.IsActive), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update fitness plan: %w", err)
	}
	return s.GetByID(id)
}

func (s *PlanStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM fitness_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fitness plan: %w", err)
	}
	return nil
}

func collectPlans(rows *sql.Rows) ([]model.FitnessPlan, error) {
	var plans []model.FitnessPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fitness plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
