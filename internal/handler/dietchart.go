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

type DietChartHandler struct {
	store  *store.DietChartStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewDietChartHandler(s *store.DietChartStore, hub *ws.Hub, logger *slog.Logger) *DietChartHandler {
	return &DietChartHandler{store: s, hub: hub, logger: logger}
}

type dietChartRequest struct {
	MemberID       int64           `json:"member_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Goal           string          `json:"goal"`
	TargetCalories int             `json:"target_calories"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Meals          json.RawMessage `json:"meals"`
	IsActive       bool            `json:"is_active"`
}

func (req *dietChartRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.MemberID == 0 {
		return "member_id is required"
	}
	switch req.Goal {
	case model.DietWeightLoss, model.DietMuscleGain, model.DietMaintenance, model.DietHealth:
	default:
		return "invalid goal"
	}
	if req.TargetCalories <= 0 {
		return "target_calories must be positive"
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return "start_date and end_date are required"
	}
	if req.EndDate.Before(req.StartDate) {
		return "end_date must not be before start_date"
	}
	return ""
}

// ListForMember handles GET /api/members/{id}/diet-charts
func (h *DietChartHandler) ListForMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !auth.CanAccessMember(r.Context(), memberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	charts, err := h.store.ListByMember(memberID)
	if err != nil {
		h.logger.Error("list diet charts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list diet charts")
		return
	}
	if charts == nil {
		charts = []model.DietChart{}
	}
	writeJSON(w, http.StatusOK, charts)
}

// Get handles GET /api/diet-charts/{id}
func (h *DietChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	chart, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get diet chart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get diet chart")
		return
	}
	if chart == nil {
		writeError(w, http.StatusNotFound, "diet chart not found")
		return
	}
	if !auth.CanAccessMember(r.Context(), chart.MemberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// ListAll handles GET /api/admin/diet-charts
func (h *DietChartHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	charts, err := h.store.ListAll()
	if err != nil {
		h.logger.Error("list diet charts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list diet charts")
		return
	}
	if charts == nil {
		charts = []model.DietChart{}
	}
	writeJSON(w, http.StatusOK, charts)
}

// Create handles POST /api/staff/diet-charts
func (h *DietChartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dietChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	assignedBy := auth.UserID(r.Context())
	chart, err := h.store.Create(&model.DietChart{
		MemberID:       req.MemberID,
		Name:           req.Name,
		Description:    req.Description,
		Goal:           req.Goal,
		TargetCalories: req.TargetCalories,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Meals:          req.Meals,
		AssignedBy:     &assignedBy,
		IsActive:       req.IsActive,
	})
	if err != nil {
		h.logger.Error("create diet chart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create diet chart")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "diet_chart", Action: "created", ID: chart.ID, MemberID: chart.MemberID})
	writeJSON(w, http.StatusCreated, chart)
}

// Update handles PUT /api/staff/diet-charts/{id}
func (h *DietChartHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get diet chart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get diet chart")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "diet chart not found")
		return
	}

	var req dietChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.MemberID = existing.MemberID
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	chart, err := h.store.Update(id, &model.DietChart{
		Name:           req.Name,
		Description:    req.Description,
		Goal:           req.Goal,
		TargetCalories: req.TargetCalories,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Meals:          req.Meals,
		IsActive:       req.IsActive,
	})
	if err != nil {
		h.logger.Error("update diet chart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update diet chart")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "diet_chart", Action: "updated", ID: chart.ID, MemberID: chart.MemberID})
	writeJSON(w, http.StatusOK, chart)
}

// Delete handles DELETE /api/admin/diet-charts/{id}
func (h *DietChartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get diet chart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get diet chart")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "diet chart not found")
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete diet chart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete diet chart")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "diet_chart", Action: "deleted", ID: id, MemberID: existing.MemberID})
	w.WriteHeader(http.StatusNoContent)
}
