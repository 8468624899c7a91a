package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mjcarver/gymledger/internal/model"
	"github.com/mjcarver/gymledger/internal/store"
)

type TrainerHandler struct {
	store  *store.TrainerStore
	logger *slog.Logger
}

func NewTrainerHandler(s *store.TrainerStore, logger *slog.Logger) *TrainerHandler {
	return &TrainerHandler{store: s, logger: logger}
}

type trainerRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Specializations []string `json:"specializations"`
	Bio             string   `json:"bio"`
}

func (req *trainerRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	return ""
}

// List handles GET /api/trainers. Any authenticated user can browse the
// trainer roster.
func (h *TrainerHandler) List(w http.ResponseWriter, r *http.Request) {
	trainers, err := h.store.List()
	if err != nil {
		h.logger.Error("list trainers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list trainers")
		return
	}
	if trainers == nil {
		trainers = []model.Trainer{}
	}
	writeJSON(w, http.StatusOK, trainers)
}

// Get handles GET /api/trainers/{id}
func (h *TrainerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	trainer, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get trainer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get trainer")
		return
	}
	if trainer == nil {
		writeError(w, http.StatusNotFound, "trainer not found")
		return
	}
	writeJSON(w, http.StatusOK, trainer)
}

// Create handles POST /api/admin/trainers
func (h *TrainerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req trainerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	trainer, err := h.store.Create(&model.Trainer{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Specializations: req.Specializations,
		Bio:             req.Bio,
	})
	if err != nil {
		h.logger.Error("create trainer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create trainer")
		return
	}
	writeJSON(w, http.StatusCreated, trainer)
}

// Update handles PUT /api/admin/trainers/{id}
func (h *TrainerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get trainer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get trainer")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "trainer not found")
		return
	}

	var req trainerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	trainer, err := h.store.Update(id, &model.Trainer{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Specializations: req.Specializations,
		Bio:             req.Bio,
	})
	if err != nil {
		h.logger.Error("update trainer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update trainer")
		return
	}
	writeJSON(w, http.StatusOK, trainer)
}

// Delete handles DELETE /api/admin/trainers/{id}
func (h *TrainerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete trainer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete trainer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
