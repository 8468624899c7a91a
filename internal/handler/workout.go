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

type WorkoutHandler struct {
	store  *store.WorkoutStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewWorkoutHandler(s *store.WorkoutStore, hub *ws.Hub, logger *slog.Logger) *WorkoutHandler {
	return &WorkoutHandler{store: s, hub: hub, logger: logger}
}

type workoutRequest struct {
	Date            time.Time         `json:"date"`
	DurationMinutes int               `json:"duration_minutes"`
	Type            string            `json:"type"`
	Notes           string            `json:"notes"`
	CaloriesBurned  *int              `json:"calories_burned"`
	Exercises       []exerciseRequest `json:"exercises"`
}

type exerciseRequest struct {
	Name            string   `json:"name"`
	Sets            int      `json:"sets"`
	Reps            int      `json:"reps"`
	WeightKg        *float64 `json:"weight_kg"`
	DurationSeconds *int     `json:"duration_seconds"`
	RestSeconds     *int     `json:"rest_seconds"`
	Notes           string   `json:"notes"`
}

func (req *workoutRequest) validate() string {
	if req.Date.IsZero() {
		return "date is required"
	}
	if req.DurationMinutes <= 0 {
		return "duration_minutes must be positive"
	}
	switch req.Type {
	case model.WorkoutCardio, model.WorkoutStrength, model.WorkoutFlexibility, model.WorkoutMixed:
	default:
		return "invalid workout type"
	}
	for i := range req.Exercises {
		req.Exercises[i].Name = strings.TrimSpace(req.Exercises[i].Name)
		if req.Exercises[i].Name == "" {
			return "exercise name is required"
		}
	}
	return ""
}

func (req *workoutRequest) toModel(memberID int64) *model.Workout {
	w := &model.Workout{
		MemberID:        memberID,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		Notes:           req.Notes,
		CaloriesBurned:  req.CaloriesBurned,
	}
	for _, ex := range req.Exercises {
		w.Exercises = append(w.Exercises, model.Exercise{
			Name:            ex.Name,
			Sets:            ex.Sets,
			Reps:            ex.Reps,
			WeightKg:        ex.WeightKg,
			DurationSeconds: ex.DurationSeconds,
			RestSeconds:     ex.RestSeconds,
			Notes:           ex.Notes,
		})
	}
	return w
}

// ListForMember handles GET /api/members/{id}/workouts
func (h *WorkoutHandler) ListForMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !auth.CanAccessMember(r.Context(), memberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	workouts, err := h.store.ListByMember(memberID)
	if err != nil {
		h.logger.Error("list workouts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list workouts")
		return
	}
	if workouts == nil {
		workouts = []model.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

// Create handles POST /api/workouts. Members log workouts on their own record.
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())
	if memberID == 0 {
		writeError(w, http.StatusForbidden, "no member record linked to this account")
		return
	}

	var req workoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	workout, err := h.store.Create(req.toModel(memberID))
	if err != nil {
		h.logger.Error("create workout", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create workout")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "workout", Action: "created", ID: workout.ID, MemberID: memberID})
	writeJSON(w, http.StatusCreated, workout)
}

// Get handles GET /api/workouts/{id}
func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

// Update handles PUT /api/workouts/{id}
func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.load(w, r)
	if !ok {
		return
	}

	var req workoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.store.Update(workout.ID, req.toModel(workout.MemberID))
	if err != nil {
		h.logger.Error("update workout", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update workout")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "workout", Action: "updated", ID: updated.ID, MemberID: updated.MemberID})
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/workouts/{id}
func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(workout.ID); err != nil {
		h.logger.Error("delete workout", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete workout")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "workout", Action: "deleted", ID: workout.ID, MemberID: workout.MemberID})
	w.WriteHeader(http.StatusNoContent)
}

// load fetches the workout from the path id and enforces ownership. It writes
// the error response itself when returning ok=false.
func (h *WorkoutHandler) load(w http.ResponseWriter, r *http.Request) (*model.Workout, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	workout, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get workout", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get workout")
		return nil, false
	}
	if workout == nil {
		writeError(w, http.StatusNotFound, "workout not found")
		return nil, false
	}
	if !auth.CanAccessMember(r.Context(), workout.MemberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return workout, true
}
