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

type MemberHandler struct {
	store  *store.MemberStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewMemberHandler(s *store.MemberStore, hub *ws.Hub, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{store: s, hub: hub, logger: logger}
}

// List handles GET /api/admin/members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.List()
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

type memberRequest struct {
	Name                string     `json:"name"`
	Gender              string     `json:"gender"`
	HeightCm            float64    `json:"height_cm"`
	WeightKg            float64    `json:"weight_kg"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Address             string     `json:"address"`
	EmergencyName       string     `json:"emergency_name"`
	EmergencyPhone      string     `json:"emergency_phone"`
	EmergencyRelation   string     `json:"emergency_relation"`
	MembershipStatus    string     `json:"membership_status"`
	MembershipFee       float64    `json:"membership_fee"`
	MembershipFeeStatus string     `json:"membership_fee_status"`
	MembershipStartDate time.Time  `json:"membership_start_date"`
	MembershipEndDate   time.Time  `json:"membership_end_date"`
	LastPaymentDate     *time.Time `json:"last_payment_date"`
	NextPaymentDate     *time.Time `json:"next_payment_date"`
}

func (req *memberRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.MembershipEndDate.IsZero() {
		return "membership_end_date is required"
	}
	switch req.MembershipStatus {
	case model.MembershipActive, model.MembershipExpired, model.MembershipPending:
	default:
		return "invalid membership_status"
	}
	switch req.MembershipFeeStatus {
	case model.FeePaid, model.FeePending, model.FeeOverdue:
	default:
		return "invalid membership_fee_status"
	}
	return ""
}

func (req *memberRequest) toModel() *model.Member {
	return &model.Member{
		Name:                req.Name,
		Gender:              defaultString(req.Gender, "other"),
		HeightCm:            req.HeightCm,
		WeightKg:            req.WeightKg,
		Email:               req.Email,
		Phone:               req.Phone,
		Address:             req.Address,
		EmergencyName:       req.EmergencyName,
		EmergencyPhone:      req.EmergencyPhone,
		EmergencyRelation:   req.EmergencyRelation,
		MembershipStatus:    req.MembershipStatus,
		MembershipFee:       req.MembershipFee,
		MembershipFeeStatus: req.MembershipFeeStatus,
		MembershipStartDate: req.MembershipStartDate,
		MembershipEndDate:   req.MembershipEndDate,
		LastPaymentDate:     req.LastPaymentDate,
		NextPaymentDate:     req.NextPaymentDate,
	}
}

// Create handles POST /api/admin/members
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MembershipStatus == "" {
		req.MembershipStatus = model.MembershipPending
	}
	if req.MembershipFeeStatus == "" {
		req.MembershipFeeStatus = model.FeePending
	}
	if req.MembershipStartDate.IsZero() {
		req.MembershipStartDate = time.Now().UTC()
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	member, err := h.store.Create(req.toModel())
	if err != nil {
		h.logger.Error("create member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create member")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "member", Action: "created", ID: member.ID, MemberID: member.ID})
	writeJSON(w, http.StatusCreated, member)
}

// Get handles GET /api/members/{id}. Members can only fetch themselves.
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !auth.CanAccessMember(r.Context(), id) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	member, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// Update handles PUT /api/members/{id}. Members may edit their own profile
// fields; membership and fee fields only change when an admin calls this.
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if !auth.CanAccessMember(r.Context(), id) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if !auth.IsAdmin(r.Context()) {
		// Non-admins cannot touch membership or fee fields
		req.MembershipStatus = existing.MembershipStatus
		req.MembershipFee = existing.MembershipFee
		req.MembershipFeeStatus = existing.MembershipFeeStatus
		req.MembershipStartDate = existing.MembershipStartDate
		req.MembershipEndDate = existing.MembershipEndDate
		req.LastPaymentDate = existing.LastPaymentDate
		req.NextPaymentDate = existing.NextPaymentDate
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	member, err := h.store.Update(id, req.toModel())
	if err != nil {
		h.logger.Error("update member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update member")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "member", Action: "updated", ID: member.ID, MemberID: member.ID})
	writeJSON(w, http.StatusOK, member)
}

// Delete handles DELETE /api/admin/members/{id}
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete member")
		return
	}

	h.hub.Broadcast(ws.Event{Entity: "member", Action: "deleted", ID: id, MemberID: id})
	w.WriteHeader(http.StatusNoContent)
}
