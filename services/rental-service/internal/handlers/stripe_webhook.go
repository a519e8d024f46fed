package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

// StripeWebhook settles card payments (no JWT auth; signature verification
// is the auth). Expose this path publicly.
func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.stripeWebhookSecret == "" {
		http.Error(w, "stripe webhook not configured", http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		http.Error(w, "missing Stripe-Signature header", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1 MiB hard cap
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	evt, err := webhook.ConstructEventWithTolerance(body, sigHeader, h.stripeWebhookSecret, h.stripeWebhookTolerance)
	if err != nil {
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	occurredAt := time.Unix(evt.Created, 0).UTC()
	evtType := string(evt.Type)
	h.logger.Info("stripe event received",
		"provider_event_id", evt.ID,
		"event_type", evtType,
		"occurred_at", occurredAt.Format(time.RFC3339),
	)

	if evtType != "checkout.session.completed" {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ignored"})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
		h.logger.Error("stripe: invalid checkout session payload", "err", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	paymentID := strings.TrimSpace(session.Metadata["payment_id"])
	p, err := h.lookupPayment(r, paymentID, session.ID)
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			h.logger.Warn("stripe: no payment for checkout session", "session_id", session.ID)
			// Ack anyway; retrying will not make the payment appear.
			writeJSON(w, http.StatusOK, map[string]any{"status": "unmatched"})
			return
		}
		http.Error(w, "failed to load payment", http.StatusInternalServerError)
		return
	}

	if p.Status == model.PaymentPaid {
		writeJSON(w, http.StatusOK, map[string]any{"status": "duplicate"})
		return
	}

	p.Status = model.PaymentPaid
	p.PaidAt = &occurredAt
	if p.StripeSessionID == "" {
		p.StripeSessionID = session.ID
	}
	if err := h.store.UpdatePayment(r.Context(), p); err != nil {
		http.Error(w, "failed to settle payment", http.StatusInternalServerError)
		return
	}

	h.logger.Info("payment settled via stripe", "payment_id", p.ID, "session_id", session.ID)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *PaymentHandler) lookupPayment(r *http.Request, paymentID, sessionID string) (model.Payment, error) {
	if paymentID != "" {
		return h.store.GetPayment(r.Context(), paymentID)
	}
	return h.store.GetPaymentByStripeSession(r.Context(), sessionID)
}
