package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mjcarver/gymledger/internal/auth"
	"github.com/mjcarver/gymledger/internal/model"
	"github.com/mjcarver/gymledger/internal/store"
)

// UserHandler covers the admin's account-management screens: listing
// accounts, promoting to trainer or admin, and deactivating.
type UserHandler struct {
	store  *store.UserStore
	logger *slog.Logger
}

func NewUserHandler(s *store.UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: s, logger: logger}
}

// List handles GET /api/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole handles PUT /api/admin/users/{id}/role. Admins cannot demote
// themselves, which keeps the system from losing its last admin by accident.
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if id == auth.UserID(r.Context()) && role != model.RoleAdmin {
		writeError(w, http.StatusBadRequest, "cannot change your own role")
		return
	}

	user, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.store.SetRole(id, role); err != nil {
		h.logger.Error("set user role", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set role")
		return
	}

	user.Role = role
	writeJSON(w, http.StatusOK, user)
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetActive handles PUT /api/admin/users/{id}/active. Deactivated accounts
// fail login and their existing sessions stop passing auth.
func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if id == auth.UserID(r.Context()) && !req.IsActive {
		writeError(w, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}

	user, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.store.SetActive(id, req.IsActive); err != nil {
		h.logger.Error("set user active", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	user.IsActive = req.IsActive
	writeJSON(w, http.StatusOK, user)
}
