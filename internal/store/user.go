package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mjcarver/gymledger/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userCols = `id, email, password_hash, role, member_id, trainer_id, is_active, created_at`

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var activeInt int
	var role string
	err := scanner.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.MemberID, &u.TrainerID, &activeInt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.IsActive = activeInt != 0
	return &u, nil
}

func (s *UserStore) Create(email, passwordHash string, role model.Role, memberID, trainerID *int64) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, password_hash, role, member_id, trainer_id) VALUES (?, ?, ?, ?, ?)`,
		strings.ToLower(strings.TrimSpace(email)), passwordHash, string(role), memberID, trainerID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByMemberID(memberID int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE member_id = ?`, memberID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by member: %w", err)
	}
	return u, nil
}

func (s *UserStore) List() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// SetRole changes a user's role. Admin only at the handler boundary.
func (s *UserStore) SetRole(id int64, role model.Role) error {
	_, err := s.db.Exec(`UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	return nil
}

func (s *UserStore) SetActive(id int64, active bool) error {
	activeInt := 0
	if active {
		activeInt = 1
	}
	_, err := s.db.Exec(`UPDATE users SET is_active = ? WHERE id = ?`, activeInt, id)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}
