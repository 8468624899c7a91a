package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/mjcarver/gymledger/internal/auth"
	"github.com/mjcarver/gymledger/internal/billing"
	"github.com/mjcarver/gymledger/internal/model"
	"github.com/mjcarver/gymledger/internal/store"
	ws "github.com/mjcarver/gymledger/internal/websocket"
)

// renewalPeriod is how much membership time one fee payment buys.
const renewalPeriod = 30 * 24 * time.Hour

type BillingHandler struct {
	client        *billing.Client
	enabled       bool
	payments      *store.PaymentStore
	members       *store.MemberStore
	notifications *store.NotificationStore
	hub           *ws.Hub
	logger        *slog.Logger
}

func NewBillingHandler(client *billing.Client, enabled bool, ps *store.PaymentStore, ms *store.MemberStore, ns *store.NotificationStore, hub *ws.Hub, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		client:        client,
		enabled:       enabled,
		payments:      ps,
		members:       ms,
		notifications: ns,
		hub:           hub,
		logger:        logger,
	}
}

// CreateCheckout handles POST /api/billing/checkout. Members start a renewal
// payment for their own membership.
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		writeError(w, http.StatusServiceUnavailable, "online payments are not configured")
		return
	}

	memberID := auth.MemberID(r.Context())
	if memberID == 0 {
		writeError(w, http.StatusForbidden, "no member record linked to this account")
		return
	}

	member, err := h.members.GetByID(memberID)
	if err != nil || member == nil {
		h.logger.Error("get member for checkout", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load member")
		return
	}
	if member.MembershipFee <= 0 {
		writeError(w, http.StatusBadRequest, "no membership fee is set for this member")
		return
	}

	reference := uuid.NewString()
	sessionID, url, err := h.client.CreateRenewalCheckout(member.ID, member.Name, member.MembershipFee, reference)
	if err != nil {
		h.logger.Error("create checkout", "member_id", memberID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}

	payment, err := h.payments.Create(member.ID, reference, sessionID, member.MembershipFee)
	if err != nil {
		h.logger.Error("record pending payment", "member_id", memberID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"payment":      payment,
		"checkout_url": url,
	})
}

// ListOwn handles GET /api/billing/payments
func (h *BillingHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberID(r.Context())
	if memberID == 0 {
		writeJSON(w, http.StatusOK, []model.Payment{})
		return
	}

	payments, err := h.payments.ListByMember(memberID)
	if err != nil {
		h.logger.Error("list payments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// ListAll handles GET /api/admin/payments
func (h *BillingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.ListAll()
	if err != nil {
		h.logger.Error("list payments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// RecordManualPayment handles POST /api/admin/members/{id}/payments for cash
// or card-at-desk payments that never touch Stripe.
func (h *BillingHandler) RecordManualPayment(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	member, err := h.members.GetByID(memberID)
	if err != nil {
		h.logger.Error("get member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Amount <= 0 {
		req.Amount = member.MembershipFee
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	now := time.Now().UTC()
	payment, err := h.payments.Create(memberID, uuid.NewString(), "", req.Amount)
	if err != nil {
		h.logger.Error("create manual payment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}
	if err := h.payments.MarkCompleted(payment.ID, now); err != nil {
		h.logger.Error("complete manual payment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	updated, err := h.completeRenewal(memberID, now)
	if err != nil {
		h.logger.Error("apply manual payment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to apply payment")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"payment": payment,
		"member":  updated,
	})
}

// HandleStripeWebhook handles POST /api/webhooks/stripe. This is the only
// unauthenticated billing route; the Stripe signature is the credential.
func (h *BillingHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		writeError(w, http.StatusServiceUnavailable, "online payments are not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}

	event, err := h.client.ConstructWebhookEvent(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	if event.Type == "checkout.session.completed" {
		h.handleCheckoutCompleted(event)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *BillingHandler) handleCheckoutCompleted(event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.logger.Error("webhook: unmarshal checkout session", "error", err)
		return
	}

	payment, err := h.payments.GetByStripeSession(sess.ID)
	if err != nil {
		h.logger.Error("webhook: lookup payment by session", "error", err)
		return
	}
	if payment == nil && sess.ClientReferenceID != "" {
		payment, err = h.payments.GetByReference(sess.ClientReferenceID)
		if err != nil {
			h.logger.Error("webhook: lookup payment by reference", "error", err)
			return
		}
	}
	if payment == nil {
		h.logger.Warn("webhook: no payment for checkout session", "session_id", sess.ID)
		return
	}
	if payment.Status == model.PaymentCompleted {
		// Stripe retries webhooks; the second delivery is a no-op
		return
	}

	now := time.Now().UTC()
	if err := h.payments.MarkCompleted(payment.ID, now); err != nil {
		h.logger.Error("webhook: mark payment completed", "error", err)
		return
	}

	if _, err := h.completeRenewal(payment.MemberID, now); err != nil {
		h.logger.Error("webhook: apply payment", "member_id", payment.MemberID, "error", err)
		return
	}

	h.logger.Info("payment completed", "member_id", payment.MemberID, "amount", payment.Amount)
}

// completeRenewal extends the membership and tells the member about it.
func (h *BillingHandler) completeRenewal(memberID int64, paidAt time.Time) (*model.Member, error) {
	member, err := h.members.RecordPayment(memberID, paidAt, renewalPeriod)
	if err != nil {
		return nil, err
	}

	n, err := h.notifications.Create(&model.Notification{
		MemberID: memberID,
		Title:    "Payment received",
		Message:  "Your membership has been renewed. Thanks for staying with us!",
		Type:     model.NotifTypeSuccess,
	})
	if err != nil {
		h.logger.Error("create payment notification", "member_id", memberID, "error", err)
	} else {
		h.hub.Broadcast(ws.Event{Entity: "notification", Action: "created", ID: n.ID, MemberID: memberID})
	}

	h.hub.Broadcast(ws.Event{Entity: "member", Action: "updated", ID: memberID, MemberID: memberID})
	return member, nil
}
