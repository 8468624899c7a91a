package model

import (
	"fmt"
	"time"
)

// Role is the finite set of account roles. Keeping it a distinct type forces
// callers to go through ParseRole, so an unknown role string is rejected at the
// boundary instead of silently falling through a dispatch chain.
type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleTrainer, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	MemberID     *int64    `json:"member_id,omitempty"`
	TrainerID    *int64    `json:"trainer_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
