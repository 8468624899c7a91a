package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mjcarver/gymledger/internal/model"
)

type ProgressStore struct {
	db *sql.DB
}

func NewProgressStore(db *sql.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

const progressCols = `id, member_id, date, weight_kg, body_fat, muscle_mass, measurements, notes, created_at`

func scanProgressLog(scanner interface{ Scan(...any) error }) (*model.ProgressLog, error) {
	var p model.ProgressLog
	var measurements string
	err := scanner.Scan(&p.ID, &p.MemberID, &p.Date, &p.WeightKg, &p.BodyFat, &p.MuscleMass, &measurements, &p.Notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(measurements), &p.Measurements); err != nil {
		return nil, fmt.Errorf("decode measurements: %w", err)
	}
	return &p, nil
}

func (s *ProgressStore) Create(p *model.ProgressLog) (*model.ProgressLog, error) {
	measurements, err := json.Marshal(p.Measurements)
	if err != nil {
		return nil, fmt.Errorf("encode measurements: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO progress_logs (member_id, date, weight_kg, body_fat, muscle_mass, measurements, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.MemberID, p.Date.UTC(), p.WeightKg, p.BodyFat, p.MuscleMass, string(measurements), p.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert progress log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ProgressStore) GetByID(id int64) (*model.ProgressLog, error) {
	row := s.db.QueryRow(`SELECT `+progressCols+` FROM progress_logs WHERE id = ?`, id)
	p, err := scanProgressLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress log: %w", err)
	}
	return p, nil
}

// ListByMember returns a member's progress history, newest first.
func (s *ProgressStore) ListByMember(memberID int64) ([]model.ProgressLog, error) {
	rows, err := s.db.Query(
		`SELECT `+progressCols+` FROM progress_logs WHERE member_id = ? ORDER BY date DESC, id DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress logs: %w", err)
	}
	defer rows.Close()

	var logs []model.ProgressLog
	for rows.Next() {
		p, err := scanProgressLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress log: %w", err)
		}
		logs = append(logs, *p)
	}
	return logs, rows.Err()
}

func (s *ProgressStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM progress_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete progress log: %w", err)
	}
	return nil
}
