package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mjcarver/gymledger/internal/auth"
	"github.com/mjcarver/gymledger/internal/model"
	"github.com/mjcarver/gymledger/internal/renewal"
	"github.com/mjcarver/gymledger/internal/store"
	ws "github.com/mjcarver/gymledger/internal/websocket"
)

type NotificationHandler struct {
	store     *store.NotificationStore
	members   *store.MemberStore
	scheduler *renewal.Scheduler
	delivery  renewal.Delivery // nil when push is not configured
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewNotificationHandler(ns *store.NotificationStore, ms *store.MemberStore, sched *renewal.Scheduler, delivery renewal.Delivery, hub *ws.Hub, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		store:     ns,
		members:   ms,
		scheduler: sched,
		delivery:  delivery,
		hub:       hub,
		logger:    logger,
	}
}

// List handles GET /api/notifications. Returns the requesting member's
// inbox, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())
	if memberID == 0 {
		writeJSON(w, http.StatusOK, []model.Notification{})
		return
	}

	notifications, err := h.store.ListByMember(memberID)
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

// UnreadCount handles GET /api/notifications/unread-count for the app badge.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())
	count := 0
	if memberID != 0 {
		var err error
		count, err = h.store.CountUnread(memberID)
		if err != nil {
			h.logger.Error("count unread", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to count notifications")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkRead handles POST /api/notifications/{id}/read. Idempotent.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get notification", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get notification")
		return
	}
	if n == nil {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	if !auth.CanAccessMember(r.Context(), n.MemberID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.store.MarkRead(id); err != nil {
		h.logger.Error("mark notification read", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark read")
		return
	}

	n.IsRead = true
	writeJSON(w, http.StatusOK, n)
}

// Delete handles DELETE /api/notifications/{id}. The recipient or an admin
// may delete; deletion is terminal from either read state.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	n, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get notification", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get notification")
		return
	}
	if n == nil {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	if !auth.IsAdmin(r.Context()) && auth.MemberID(r.Context()) != n.MemberID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.logger.Error("delete notification", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAll handles GET /api/admin/notifications
func (h *NotificationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.store.ListAll()
	if err != nil {
		h.logger.Error("list all notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

type customSendRequest struct {
	MemberIDs []int64 `json:"member_ids"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	SendPush  bool    `json:"send_push"`
}

// SendCustom handles POST /api/admin/notifications. One record per selected
// member; a failed write for one recipient does not stop the rest.
func (h *NotificationHandler) SendCustom(w http.ResponseWriter, r *http.Request) {
	var req customSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if len(req.MemberIDs) == 0 {
		writeError(w, http.StatusBadRequest, "select at least one member")
		return
	}
	if req.Title == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "title and message are required")
		return
	}
	switch req.Type {
	case "":
		req.Type = model.NotifTypeInfo
	case model.NotifTypeInfo, model.NotifTypeWarning, model.NotifTypeSuccess, model.NotifTypeError, model.NotifTypeMembershipRenewal:
	default:
		writeError(w, http.StatusBadRequest, "invalid notification type")
		return
	}

	sent, failed := 0, 0
	for _, memberID := range req.MemberIDs {
		n, err := h.store.Create(&model.Notification{
			MemberID: memberID,
			Title:    req.Title,
			Message:  req.Message,
			Type:     req.Type,
		})
		if err != nil {
			h.logger.Error("create custom notification", "member_id", memberID, "error", err)
			failed++
			continue
		}
		sent++

		if req.SendPush && h.delivery != nil {
			if err := h.delivery.SendToMember(r.Context(), memberID, req.Title, req.Message); err != nil {
				h.logger.Warn("push custom notification", "member_id", memberID, "error", err)
			}
		}
		h.hub.Broadcast(ws.Event{Entity: "notification", Action: "created", ID: n.ID, MemberID: memberID})
	}

	if sent == 0 && failed > 0 {
		writeError(w, http.StatusInternalServerError, "failed to send notifications")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"sent": sent, "failed": failed})
}

// RunRenewalCheck handles POST /api/admin/renewals/check. It runs the same
// pass the background scheduler runs.
func (h *NotificationHandler) RunRenewalCheck(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduler.Run(r.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("renewal check", "error", err)
		writeError(w, http.StatusInternalServerError, "renewal check failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type renewalCandidate struct {
	Member          model.Member    `json:"member"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
	Urgency         renewal.Urgency `json:"urgency"`
}

// ListRenewals handles GET /api/admin/renewals. Lists members inside the
// outer reminder window so admins can review before a manual send.
func (h *NotificationHandler) ListRenewals(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List()
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	reminders := renewal.Evaluate(time.Now().UTC(), members, h.scheduler.Windows())
	candidates := make([]renewalCandidate, 0, len(reminders))
	for _, rem := range reminders {
		candidates = append(candidates, renewalCandidate{
			Member:          rem.Member,
			DaysUntilExpiry: rem.DaysUntilExpiry,
			Urgency:         rem.Urgency,
		})
	}
	writeJSON(w, http.StatusOK, candidates)
}
