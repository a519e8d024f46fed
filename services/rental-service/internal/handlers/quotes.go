package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/climatize/climatize/services/rental-service/internal/model"
	"github.com/climatize/climatize/services/rental-service/internal/store"
)

type QuoteHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewQuoteHandler(s store.Store, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{store: s, logger: logger}
}

type quoteRequest struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"client_id"`
	BookingID  string            `json:"booking_id"`
	Title      string            `json:"title"`
	Items      []model.QuoteItem `json:"items"`
	Discount   float64           `json:"discount"`
	Taxes      float64           `json:"taxes"`
	ValidUntil string            `json:"valid_until"`
	Status     string            `json:"status"`
}

func (h *QuoteHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		quotes, err := h.store.ListQuotes(r.Context())
		if err != nil {
			h.logger.Error("list quotes failed", "err", err)
			http.Error(w, "failed to list quotes", http.StatusInternalServerError)
			return
		}
		if quotes == nil {
			quotes = []model.Quote{}
		}
		writeJSON(w, http.StatusOK, quotes)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *QuoteHandler) create(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ClientID = strings.TrimSpace(req.ClientID)
	req.Title = strings.TrimSpace(req.Title)
	if req.ClientID == "" || req.Title == "" || len(req.Items) == 0 {
		http.Error(w, "client_id, title and items required", http.StatusBadRequest)
		return
	}
	status := model.QuoteStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.QuoteDraft
	}
	if !validQuoteStatus(status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		http.Error(w, "invalid valid_until", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	q := model.Quote{
		ID:         uuid.NewString(),
		ClientID:   req.ClientID,
		BookingID:  strings.TrimSpace(req.BookingID),
		Title:      req.Title,
		Items:      req.Items,
		Discount:   req.Discount,
		Taxes:      req.Taxes,
		ValidUntil: validUntil.UTC(),
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// Line totals and the quote total are recomputed server-side; the client
	// only sends quantities and rates.
	for i := range q.Items {
		item := &q.Items[i]
		item.Total = float64(item.Quantity) * float64(item.Days) * item.DailyRate
		q.Subtotal += item.Total
	}
	q.Total = q.Subtotal - q.Discount + q.Taxes

	if err := h.store.InsertQuote(r.Context(), q); err != nil {
		h.logger.Error("create quote failed", "err", err)
		http.Error(w, "failed to create quote", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	q, err := h.store.GetQuote(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	q, err := h.store.GetQuote(r.Context(), req.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if v := strings.TrimSpace(req.ClientID); v != "" {
		q.ClientID = v
	}
	if v := strings.TrimSpace(req.BookingID); v != "" {
		q.BookingID = v
	}
	if v := strings.TrimSpace(req.Title); v != "" {
		q.Title = v
	}
	if v := strings.TrimSpace(req.Status); v != "" {
		status := model.QuoteStatus(v)
		if !validQuoteStatus(status) {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		q.Status = status
	}
	if v := strings.TrimSpace(req.ValidUntil); v != "" {
		validUntil, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid valid_until", http.StatusBadRequest)
			return
		}
		q.ValidUntil = validUntil.UTC()
	}
	if req.Items != nil {
		q.Items = req.Items
		q.Discount = req.Discount
		q.Taxes = req.Taxes
		q.Subtotal = 0
		for i := range q.Items {
			item := &q.Items[i]
			item.Total = float64(item.Quantity) * float64(item.Days) * item.DailyRate
			q.Subtotal += item.Total
		}
		q.Total = q.Subtotal - q.Discount + q.Taxes
	}
	q.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateQuote(r.Context(), q); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.store.DeleteQuote(r.Context(), req.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID, "status": "deleted"})
}

func validQuoteStatus(s model.QuoteStatus) bool {
	switch s {
	case model.QuoteDraft, model.QuoteSent, model.QuoteAccepted, model.QuoteRejected, model.QuoteExpired:
		return true
	}
	return false
}
