package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mjcarver/gymledger/internal/auth"
	"github.com/mjcarver/gymledger/internal/model"
	"github.com/mjcarver/gymledger/internal/push"
	"github.com/mjcarver/gymledger/internal/store"
)

type PushHandler struct {
	store   *store.PushStore
	service *push.Service
	logger  *slog.Logger
}

func NewPushHandler(s *store.PushStore, service *push.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{store: s, service: service, logger: logger}
}

// VAPIDKey handles GET /api/push/vapid-key. The client needs the public key
// to call PushManager.subscribe.
func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	key := h.service.VAPIDPublicKey()
	if key == "" {
		writeError(w, http.StatusServiceUnavailable, "push notifications are not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

type subscribeRequest struct {
	Endpoint   string `json:"endpoint"`
	Keys       struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
	DeviceName string `json:"device_name"`
}

// Subscribe handles POST /api/push/subscriptions
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())
	if memberID == 0 {
		writeError(w, http.StatusForbidden, "no member record linked to this account")
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub, err := h.store.CreateSubscription(memberID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth, req.DeviceName)
	if err != nil {
		h.logger.Error("create push subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// List handles GET /api/push/subscriptions
func (h *PushHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())
	if memberID == 0 {
		writeJSON(w, http.StatusOK, []model.PushSubscription{})
		return
	}

	subs, err := h.store.ListByMember(memberID)
	if err != nil {
		h.logger.Error("list push subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	if subs == nil {
		subs = []model.PushSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// Unsubscribe handles DELETE /api/push/subscriptions/{id}. The member_id
// constraint in the store keeps one member from removing another's device.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	memberID := auth.MemberID(r.Context())
	if memberID == 0 {
		writeError(w, http.StatusForbidden, "no member record linked to this account")
		return
	}

	if err := h.store.DeleteSubscription(id, memberID); err != nil {
		h.logger.Error("delete push subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete subscription")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
