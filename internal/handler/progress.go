package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mjcarver/gymledger/internal/auth"
	"github.com/mjcarver/gymledger/internal/model"
	"github.com/mjcarver/gymledger/internal/store"
	ws "github.com/mjcarver/gymledger/internal/websocket"
)

type ProgressHandler struct {
	store  *store.ProgressStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewProgressHandler(s *store.ProgressStore, hub *ws.Hub, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{store: s, hub: hub, logger: logger}
}

type progressRequest struct {
	Date         time.Time          `json:"date"`
	WeightKg     float64            `json:"weight_kg"`
	BodyFat      *float64           `json:"body_fat"`
	MuscleMass   *float64           `json:"muscle_mass"`
	Measurements model.Measurements `json:"measurements"`
	Notes        string             `json:"notes"`
}

func (req *progressRequest) validate() string {
	if req.Date.IsZero() {
		return "date is required"
	}
	if req.WeightKg <= 0 {
		return "weight_kg must be positive"
	}
	if req.BodyFat != nil && (*req.BodyFat < 0 || *req.BodyFat > 100) {
		return "body_fat must be between 0 and 100"
	}
	return ""
}

// ListForMember handles GET /api/members/{id}/progress
func (h *ProgressHandler) ListForMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !auth.CanAccessMember(r.Context(), memberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	logs, err := h.store.ListByMember(memberID)
	if err != nil {
		h.logger.Error("list progress logs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list progress logs")
		return
	}
	if logs == nil {
		logs = []model.ProgressLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// Create handles POST /api/progress. Members record measurements on their own
// record.
func (h *ProgressHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())
	if memberID == 0 {
		writeError(w, http.StatusForbidden, "no member record linked to this account")
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	log, err := h.store.Create(&model.ProgressLog{
		MemberID:     memberID,
		Date:         req.Date,
		WeightKg:     req.WeightKg,
		BodyFat:      req.BodyFat,
		MuscleMass:   req.MuscleMass,
		Measurements: req.Measurements,
		Notes:        req.Notes,
	})
	if err != nil {
		h.logger.Error("create progress log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create progress log")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "progress", Action: "created", ID: log.ID, MemberID: memberID})
	writeJSON(w, http.StatusCreated, log)
}

// Delete handles DELETE /api/progress/{id}
func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	log, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get progress log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get progress log")
		return
	}
	if log == nil {
		writeError(w, http.StatusNotFound, "progress log not found")
		return
	}
	if !auth.CanAccessMember(r.Context(), log.MemberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete progress log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete progress log")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "progress", Action: "deleted", ID: id, MemberID: log.MemberID})
	w.WriteHeader(http.StatusNoContent)
}
