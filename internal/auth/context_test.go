package auth

import (
	"context"
	"testing"

	"github.com/mjcarver/gymledger/internal/model"
)

func TestFromContextMissing(t *testing.T) {
	ctx := context.Background()

	if _, ok := FromContext(ctx); ok {
		t.Error("expected no auth context on empty context")
	}
	if UserID(ctx) != 0 {
		t.Error("expected zero user id on empty context")
	}
	if MemberID(ctx) != 0 {
		t.Error("expected zero member id on empty context")
	}
	if IsAdmin(ctx) {
		t.Error("expected not admin on empty context")
	}
}

func TestWithContextRoundTrip(t *testing.T) {
	memberID := int64(7)
	ac := Context{UserID: 3, Role: model.RoleMember, MemberID: &memberID, SessionID: 11}
	ctx := WithContext(context.Background(), ac)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected auth context")
	}
	if got.UserID != 3 || got.SessionID != 11 {
		t.Errorf("got %+v", got)
	}
	if MemberID(ctx) != 7 {
		t.Errorf("member id = %d, want 7", MemberID(ctx))
	}
}

func TestCanAccessMember(t *testing.T) {
	memberID := int64(5)

	cases := []struct {
		name   string
		ac     Context
		target int64
		want   bool
	}{
		{"admin sees anyone", Context{UserID: 1, Role: model.RoleAdmin}, 5, true},
		{"trainer sees anyone", Context{UserID: 2, Role: model.RoleTrainer}, 5, true},
		{"member sees self", Context{UserID: 3, Role: model.RoleMember, MemberID: &memberID}, 5, true},
		{"member cannot see others", Context{UserID: 3, Role: model.RoleMember, MemberID: &memberID}, 6, false},
		{"member without link sees nothing", Context{UserID: 4, Role: model.RoleMember}, 5, false},
		{"unknown role sees nothing", Context{UserID: 5, Role: model.Role("ghost")}, 5, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := WithContext(context.Background(), tc.ac)
			if got := CanAccessMember(ctx, tc.target); got != tc.want {
				t.Errorf("CanAccessMember = %v, want %v", got, tc.want)
			}
		})
	}

	if CanAccessMember(context.Background(), 5) {
		t.Error("expected false without auth context")
	}
}
