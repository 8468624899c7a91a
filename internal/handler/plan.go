package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mjcarver/gymledger/internal/auth"
	"github.com/mjcarver/gymledger/internal/model"
	"github.com/mjcarver/gymledger/internal/store"
	ws "github.com/mjcarver/gymledger/internal/websocket"
)

type PlanHandler struct {
	store  *store.PlanStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewPlanHandler(s *store.PlanStore, hub *ws.Hub, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{store: s, hub: hub, logger: logger}
}

type planRequest struct {
	MemberID         int64           `json:"member_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Goal             string          `json:"goal"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	WorkoutTemplates json.RawMessage `json:"workout_templates"`
	IsActive         bool            `json:"is_active"`
}

func (req *planRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.MemberID == 0 {
		return "member_id is required"
	}
	switch req.Goal {
	case model.GoalWeightLoss, model.GoalMuscleGain, model.GoalEndurance, model.GoalFlexibility, model.GoalGeneralFitness:
	default:
		return "invalid goal"
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return "start_date and end_date are required"
	}
	if req.EndDate.Before(req.StartDate) {
		return "end_date must not be before start_date"
	}
	return ""
}

// ListForMember handles GET /api/members/{id}/plans. Members see the plans
// assigned to them; editing is staff-only.
func (h *PlanHandler) ListForMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !auth.CanAccessMember(r.Context(), memberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	plans, err := h.store.ListByMember(memberID)
	if err != nil {
		h.logger.Error("list fitness plans", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list fitness plans")
		return
	}
	if plans == nil {
		plans = []model.FitnessPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// Get handles GET /api/plans/{id}
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	plan, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get fitness plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get fitness plan")
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "fitness plan not found")
		return
	}
	if !auth.CanAccessMember(r.Context(), plan.MemberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// ListAll handles GET /api/admin/plans
func (h *PlanHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	plans, err := h.store.ListAll()
	if err != nil {
		h.logger.Error("list fitness plans", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list fitness plans")
		return
	}
	if plans == nil {
		plans = []model.FitnessPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// Create handles POST /api/staff/plans
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	assignedBy := auth.UserID(r.Context())
	plan, err := h.store.Create(&model.FitnessPlan{
		MemberID:         req.MemberID,
		Name:             req.Name,
		Description:      req.Description,
		Goal:             req.Goal,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		WorkoutTemplates: req.WorkoutTemplates,
		AssignedBy:       &assignedBy,
		IsActive:         req.IsActive,
	})
	if err != nil {
		h.logger.Error("create fitness plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create fitness plan")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "plan", Action: "created", ID: plan.ID, MemberID: plan.MemberID})
	writeJSON(w, http.StatusCreated, plan)
}

// Update handles PUT /api/staff/plans/{id}
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get fitness plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get fitness plan")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "fitness plan not found")
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	// The plan stays bound to its member
	req.MemberID = existing.MemberID
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	plan, err := h.store.Update(id, &model.FitnessPlan{
		Name:             req.Name,
		Description:      req.Description,
		Goal:             req.Goal,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		WorkoutTemplates: req.WorkoutTemplates,
		IsActive:         req.IsActive,
	})
	if err != nil {
		h.logger.Error("update fitness plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update fitness plan")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "plan", Action: "updated", ID: plan.ID, MemberID: plan.MemberID})
	writeJSON(w, http.StatusOK, plan)
}

// Delete handles DELETE /api/admin/plans/{id}
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get fitness plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get fitness plan")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "fitness plan not found")
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete fitness plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete fitness plan")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "plan", Action: "deleted", ID: id, MemberID: existing.MemberID})
	w.WriteHeader(http.StatusNoContent)
}
