package store

import (
	"database/sql"
	"fmt"

	"github.com/mjcarver/gymledger/internal/model"
)

type WorkoutStore struct {
	db *sql.DB
}

func NewWorkoutStore(db *sql.DB) *WorkoutStore {
	return &WorkoutStore{db: db}
}

const workoutCols = `id, member_id, date, duration_minutes, type, notes, calories_burned, created_at, updated_at`

func scanWorkout(scanner interface{ Scan(...any) error }) (*model.Workout, error) {
	var w model.Workout
	err := scanner.Scan(&w.ID, &w.MemberID, &w.Date, &w.DurationMinutes, &w.Type, &w.Notes, &w.CaloriesBurned, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a workout and its exercises in one transaction.
func (s *WorkoutStore) Create(w *model.Workout) (*model.Workout, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO workouts (member_id, date, duration_minutes, type, notes, calories_burned)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		w.MemberID, w.Date.UTC(), w.DurationMinutes, w.Type, w.Notes, w.CaloriesBurned,
	)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, ex := range w.Exercises {
		if _, err := tx.Exec(
			`INSERT INTO workout_exercises (workout_id, name, sets, reps, weight_kg, duration_seconds, rest_seconds, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, ex.Name, ex.Sets, ex.Reps, ex.WeightKg, ex.DurationSeconds, ex.RestSeconds, ex.Notes,
		); err != nil {
			return nil, fmt.Errorf("insert exercise: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *WorkoutStore) GetByID(id int64) (*model.Workout, error) {
	row := s.db.QueryRow(`SELECT `+workoutCols+` FROM workouts WHERE id = ?`, id)
	w, err := scanWorkout(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query workout: %w", err)
	}

	w.Exercises, err = s.listExercises(id)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListByMember returns a member's workout history, newest first, with
// exercises attached.
func (s *WorkoutStore) ListByMember(memberID int64) ([]model.Workout, error) {
	rows, err := s.db.Query(
		`SELECT `+workoutCols+` FROM workouts WHERE member_id = ? ORDER BY date DESC, id DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []model.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range workouts {
		workouts[i].Exercises, err = s.listExercises(workouts[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return workouts, nil
}

// Update replaces the workout fields and its full exercise list.
func (s *WorkoutStore) Update(id int64, w *model.Workout) (*model.Workout, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE workouts SET date = ?, duration_minutes = ?, type = ?, notes = ?, calories_burned = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		w.Date.UTC(), w.DurationMinutes, w.Type, w.Notes, w.CaloriesBurned, id,
	); err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM workout_exercises WHERE workout_id = ?`, id); err != nil {
		return nil, fmt.Errorf("clear exercises: %w", err)
	}
	for _, ex := range w.Exercises {
		if _, err := tx.Exec(
			`INSERT INTO workout_exercises (workout_id, name, sets, reps, weight_kg, duration_seconds, rest_seconds, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, ex.Name, ex.Sets, ex.Reps, ex.WeightKg, ex.DurationSeconds, ex.RestSeconds, ex.Notes,
		); err != nil {
			return nil, fmt.Errorf("insert exercise: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *WorkoutStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}

func (s *WorkoutStore) listExercises(workoutID int64) ([]model.Exercise, error) {
	rows, err := s.db.Query(
		`SELECT id, workout_id, name, sets, reps, weight_kg, duration_seconds, rest_seconds, notes
		 FROM workout_exercises WHERE workout_id = ? ORDER BY id`,
		workoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []model.Exercise
	for rows.Next() {
		var ex model.Exercise
		if err := rows.Scan(&ex.ID, &ex.WorkoutID, &ex.Name, &ex.Sets, &ex.Reps, &ex.WeightKg, &ex.DurationSeconds, &ex.RestSeconds, &ex.Notes); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}
