package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mjcarver/gymledger/internal/model"
)

type TrainerStore struct {
	db *sql.DB
}

func NewTrainerStore(db *sql.DB) *TrainerStore {
	return &TrainerStore{db: db}
}

const trainerCols = `id, name, email, phone, specializations, bio, created_at`

func scanTrainer(scanner interface{ Scan(...any) error }) (*model.Trainer, error) {
	var t model.Trainer
	var specs string
	err := scanner.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &specs, &t.Bio, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(specs), &t.Specializations); err != nil {
		return nil, fmt.Errorf("decode specializations: %w", err)
	}
	return &t, nil
}

func (s *TrainerStore) Create(t *model.Trainer) (*model.Trainer, error) {
	specs, err := json.Marshal(t.Specializations)
	if err != nil {
		return nil, fmt.Errorf("encode specializations: %w", err)
	}
	result, err := s.db.Exec(
		`INSERT INTO trainers (name, email, phone, specializations, bio) VALUES (?, ?, ?, ?, ?)`,
		t.Name, t.Email, t.Phone, string(specs), t.Bio,
	)
	if err != nil {
		return nil, fmt.Errorf("insert trainer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TrainerStore) GetByID(id int64) (*model.Trainer, error) {
	row := s.db.QueryRow(`SELECT `+trainerCols+` FROM trainers WHERE id = ?`, id)
	t, err := scanTrainer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query trainer: %w", err)
	}
	return t, nil
}

func (s *TrainerStore) List() ([]model.Trainer, error) {
	rows, err := s.db.Query(`SELECT ` + trainerCols + ` FROM trainers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	defer rows.Close()

	var trainers []model.Trainer
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trainer: %w", err)
		}
		trainers = append(trainers, *t)
	}
	return trainers, rows.Err()
}

func (s *TrainerStore) Update(id int64, t *model.Trainer) (*model.Trainer, error) {
	specs, err := json.Marshal(t.Specializations)
	if err != nil {
		return nil, fmt.Errorf("encode specializations: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE trainers SET name = ?, email = ?, phone = ?, specializations = ?, bio = ? WHERE id = ?`,
		t.Name, t.Email, t.Phone, string(specs), t.Bio, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update trainer: %w", err)
	}
	return s.GetByID(id)
}

func (s *TrainerStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM trainers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trainer: %w", err)
	}
	return nil
}
