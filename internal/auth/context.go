package auth

import (
	"context"

	"github.com/mjcarver/gymledger/internal/model"
)

type contextKey struct{}

// Context is the per-request session identity. It is built once by the auth
// middleware and carried on the request context; nothing else holds session
// state.
type Context struct {
	UserID    int64
	Role      model.Role
	MemberID  *int64
	SessionID int64
}

func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (Context, bool) {
	ac, ok := ctx.Value(contextKey{}).(Context)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// MemberID returns the linked member id, or 0 if the session has no member
// link (admins and trainers).
func MemberID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok || ac.MemberID == nil {
		return 0
	}
	return *ac.MemberID
}

func IsAdmin(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	return ok && ac.Role == model.RoleAdmin
}

// CanAccessMember reports whether the session may read records owned by the
// given member: admins and trainers see everyone, members only themselves.
func CanAccessMember(ctx context.Context, memberID int64) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	switch ac.Role {
	case model.RoleAdmin, model.RoleTrainer:
		return true
	case model.RoleMember:
		return ac.MemberID != nil && *ac.MemberID == memberID
	}
	return false
}
