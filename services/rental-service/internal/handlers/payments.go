package handlers

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"

	"github.com/climatize/climatize/services/rental-service/internal/model"
	"github.com/climatize/climatize/services/rental-service/internal/store"
)

type PaymentHandler struct {
	store  store.Store
	logger *slog.Logger

	stripeSecretKey        string
	stripeWebhookSecret    string
	stripeWebhookTolerance time.Duration
	checkoutSuccessURL     string
	checkoutCancelURL      string
}

type PaymentConfig struct {
	StripeSecretKey        string
	StripeWebhookSecret    string
	StripeWebhookTolerance time.Duration
	CheckoutSuccessURL     string
	CheckoutCancelURL      string
}

func NewPaymentHandler(s store.Store, logger *slog.Logger, cfg PaymentConfig) *PaymentHandler {
	if cfg.StripeWebhookTolerance <= 0 {
		cfg.StripeWebhookTolerance = 5 * time.Minute
	}
	return &PaymentHandler{
		store:                  s,
		logger:                 logger,
		stripeSecretKey:        strings.TrimSpace(cfg.StripeSecretKey),
		stripeWebhookSecret:    strings.TrimSpace(cfg.StripeWebhookSecret),
		stripeWebhookTolerance: cfg.StripeWebhookTolerance,
		checkoutSuccessURL:     strings.TrimSpace(cfg.CheckoutSuccessURL),
		checkoutCancelURL:      strings.TrimSpace(cfg.CheckoutCancelURL),
	}
}

type paymentRequest struct {
	ID        string  `json:"id"`
	ClientID  string  `json:"client_id"`
	BookingID string  `json:"booking_id"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Status    string  `json:"status"`
	DueDate   string  `json:"due_date"`
	Notes     string  `json:"notes"`
}

func (h *PaymentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		payments, err := h.store.ListPayments(r.Context())
		if err != nil {
			h.logger.Error("list payments failed", "err", err)
			http.Error(w, "failed to list payments", http.StatusInternalServerError)
			return
		}
		if payments == nil {
			payments = []model.Payment{}
		}
		writeJSON(w, http.StatusOK, payments)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PaymentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ClientID = strings.TrimSpace(req.ClientID)
	if req.ClientID == "" || req.Amount <= 0 {
		http.Error(w, "client_id and a positive amount required", http.StatusBadRequest)
		return
	}
	method := model.PaymentMethod(strings.TrimSpace(req.Method))
	if !method.Valid() {
		http.Error(w, "invalid method", http.StatusBadRequest)
		return
	}
	status := model.PaymentStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.PaymentPending
	}
	if status != model.PaymentPaid && status != model.PaymentPending && status != model.PaymentOverdue {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	date := now
	if v := strings.TrimSpace(req.Date); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		date = parsed.UTC()
	}

	p := model.Payment{
		ID:        uuid.NewString(),
		ClientID:  req.ClientID,
		BookingID: strings.TrimSpace(req.BookingID),
		Date:      date,
		Amount:    req.Amount,
		Method:    method,
		Status:    status,
		Notes:     req.Notes,
		CreatedAt: now,
	}
	if v := strings.TrimSpace(req.DueDate); v != "" {
		due, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid due_date", http.StatusBadRequest)
			return
		}
		dueUTC := due.UTC()
		p.DueDate = &dueUTC
	}
	if status == model.PaymentPaid {
		p.PaidAt = &now
	}

	if err := h.store.InsertPayment(r.Context(), p); err != nil {
		h.logger.Error("create payment failed", "err", err)
		http.Error(w, "failed to create payment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	p, err := h.store.GetPayment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	p, err := h.store.GetPayment(r.Context(), req.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if v := strings.TrimSpace(req.ClientID); v != "" {
		p.ClientID = v
	}
	if v := strings.TrimSpace(req.BookingID); v != "" {
		p.BookingID = v
	}
	if req.Amount > 0 {
		p.Amount = req.Amount
	}
	if v := strings.TrimSpace(req.Method); v != "" {
		method := model.PaymentMethod(v)
		if !method.Valid() {
			http.Error(w, "invalid method", http.StatusBadRequest)
			return
		}
		p.Method = method
	}
	if v := strings.TrimSpace(req.Status); v != "" {
		status := model.PaymentStatus(v)
		if status != model.PaymentPaid && status != model.PaymentPending && status != model.PaymentOverdue {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		if status == model.PaymentPaid && p.Status != model.PaymentPaid {
			now := time.Now().UTC()
			p.PaidAt = &now
		}
		p.Status = status
	}
	if v := strings.TrimSpace(req.DueDate); v != "" {
		due, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid due_date", http.StatusBadRequest)
			return
		}
		dueUTC := due.UTC()
		p.DueDate = &dueUTC
	}
	if req.Notes != "" {
		p.Notes = req.Notes
	}

	if err := h.store.UpdatePayment(r.Context(), p); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	if err := h.store.DeletePayment(r.Context(), req.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID, "status": "deleted"})
}

type checkoutRequest struct {
	PaymentID  string `json:"payment_id"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

// Checkout creates a Stripe Checkout session for a pending card payment and
// stores the session ID on the payment so the webhook can settle it.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.stripeSecretKey == "" {
		http.Error(w, "stripe checkout not configured (STRIPE_SECRET_KEY missing)", http.StatusNotImplemented)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	if req.PaymentID == "" {
		http.Error(w, "payment_id required", http.StatusBadRequest)
		return
	}

	p, err := h.store.GetPayment(r.Context(), req.PaymentID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if p.Method != model.PaymentCard {
		http.Error(w, "only card payments go through checkout", http.StatusBadRequest)
		return
	}
	if p.Status == model.PaymentPaid {
		http.Error(w, "payment already settled", http.StatusConflict)
		return
	}

	successURL := strings.TrimSpace(req.SuccessURL)
	if successURL == "" {
		successURL = h.checkoutSuccessURL
	}
	cancelURL := strings.TrimSpace(req.CancelURL)
	if cancelURL == "" {
		cancelURL = h.checkoutCancelURL
	}
	if successURL == "" || cancelURL == "" {
		http.Error(w, "success_url and cancel_url are required (or configure default URLs)", http.StatusBadRequest)
		return
	}

	// Stripe uses a global API key. Keep usage limited to this handler call.
	stripe.Key = h.stripeSecretKey

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(p.ID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyBRL)),
					UnitAmount: stripe.Int64(int64(math.Round(p.Amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Locação de climatizadores"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"payment_id": p.ID,
			"booking_id": p.BookingID,
		},
	}
	if idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key")); idemKey != "" {
		params.IdempotencyKey = stripe.String(idemKey)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		h.logger.Error("stripe checkout session create failed", "err", err)
		http.Error(w, "failed to create checkout session", http.StatusBadGateway)
		return
	}

	p.StripeSessionID = sess.ID
	if err := h.store.UpdatePayment(r.Context(), p); err != nil {
		http.Error(w, "failed to persist checkout session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"url":        sess.URL,
	})
}
