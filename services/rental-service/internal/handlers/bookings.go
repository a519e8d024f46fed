package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/climatize/climatize/services/rental-service/internal/booking"
	"github.com/climatize/climatize/services/rental-service/internal/model"
	"github.com/climatize/climatize/services/rental-service/internal/outbox"
	"github.com/climatize/climatize/services/rental-service/internal/schedule"
)

type BookingHandler struct {
	svc    *booking.Service
	events Emitter
	logger *slog.Logger
}

func NewBookingHandler(svc *booking.Service, events Emitter, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, events: events, logger: logger}
}

type createBookingRequest struct {
	ClientID     string   `json:"client_id"`
	EquipmentIDs []string `json:"equipment_ids"`
	Site         string   `json:"site"`
	Address      string   `json:"address"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	MarginHours  float64  `json:"margin_hours"`
	Status       string   `json:"status"`
	TotalPerDay  float64  `json:"total_per_day"`
	Days         int      `json:"days"`
	TotalAmount  float64  `json:"total_amount"`
	Notes        string   `json:"notes"`
}

type updateBookingRequest struct {
	ID           string   `json:"id"`
	ClientID     *string  `json:"client_id"`
	EquipmentIDs []string `json:"equipment_ids"`
	Site         *string  `json:"site"`
	Address      *string  `json:"address"`
	Start        *string  `json:"start"`
	End          *string  `json:"end"`
	MarginHours  *float64 `json:"margin_hours"`
	Status       *string  `json:"status"`
	TotalPerDay  *float64 `json:"total_per_day"`
	Days         *int     `json:"days"`
	TotalAmount  *float64 `json:"total_amount"`
	Notes        *string  `json:"notes"`
}

type deleteBookingRequest struct {
	ID string `json:"id"`
}

// Collection handles GET (list) and POST (create) on /api/v1/bookings.
func (h *BookingHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("list bookings failed", "err", err)
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	req.ClientID = strings.TrimSpace(req.ClientID)
	req.Site = strings.TrimSpace(req.Site)
	if req.ClientID == "" || req.Site == "" || len(req.EquipmentIDs) == 0 {
		http.Error(w, "client_id, site and equipment_ids required", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		http.Error(w, "invalid start", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		http.Error(w, "invalid end", http.StatusBadRequest)
		return
	}
	if !end.After(start) {
		http.Error(w, "end must be after start", http.StatusBadRequest)
		return
	}
	if req.MarginHours < 0 {
		http.Error(w, "margin_hours must not be negative", http.StatusBadRequest)
		return
	}
	status := model.BookingStatus(strings.TrimSpace(req.Status))
	if status != "" && !status.Valid() {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Create(r.Context(), booking.CreateInput{
		ClientID:     req.ClientID,
		EquipmentIDs: req.EquipmentIDs,
		Site:         req.Site,
		Address:      strings.TrimSpace(req.Address),
		Start:        start.UTC(),
		End:          end.UTC(),
		MarginHours:  req.MarginHours,
		Status:       status,
		TotalPerDay:  req.TotalPerDay,
		Days:         req.Days,
		TotalAmount:  req.TotalAmount,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, model.ErrEquipmentNotFound) {
			http.Error(w, "unknown equipment id", http.StatusBadRequest)
			return
		}
		h.logger.Error("create booking failed", "err", err)
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
		return
	}

	h.emitBookingEvent(r, outbox.EventBookingCreated, b)
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	in := booking.UpdateInput{
		ClientID:     req.ClientID,
		EquipmentIDs: req.EquipmentIDs,
		Site:         req.Site,
		Address:      req.Address,
		MarginHours:  req.MarginHours,
		TotalPerDay:  req.TotalPerDay,
		Days:         req.Days,
		TotalAmount:  req.TotalAmount,
		Notes:        req.Notes,
	}
	if req.Start != nil {
		start, err := time.Parse(time.RFC3339, *req.Start)
		if err != nil {
			http.Error(w, "invalid start", http.StatusBadRequest)
			return
		}
		start = start.UTC()
		in.Start = &start
	}
	if req.End != nil {
		end, err := time.Parse(time.RFC3339, *req.End)
		if err != nil {
			http.Error(w, "invalid end", http.StatusBadRequest)
			return
		}
		end = end.UTC()
		in.End = &end
	}
	if req.MarginHours != nil && *req.MarginHours < 0 {
		http.Error(w, "margin_hours must not be negative", http.StatusBadRequest)
		return
	}
	if req.Status != nil {
		status := model.BookingStatus(strings.TrimSpace(*req.Status))
		if !status.Valid() {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		in.Status = &status
	}

	b, err := h.svc.Update(r.Context(), req.ID, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if in.Status != nil && *in.Status == model.BookingCanceled {
		h.emitBookingEvent(r, outbox.EventBookingCanceled, b)
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req deleteBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Delete(r.Context(), req.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.emitBookingEvent(r, outbox.EventBookingDeleted, b)
	writeJSON(w, http.StatusOK, map[string]string{"id": b.ID, "status": "deleted"})
}

// Availability evaluates a requested window without mutating anything.
// GET /api/v1/availability?equipment_ids=a,b&start=...&end=...&margin_hours=6
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	var equipmentIDs []string
	for _, raw := range strings.Split(q.Get("equipment_ids"), ",") {
		if id := strings.TrimSpace(raw); id != "" {
			equipmentIDs = append(equipmentIDs, id)
		}
	}
	if len(equipmentIDs) == 0 {
		http.Error(w, "equipment_ids required", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		http.Error(w, "invalid start", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		http.Error(w, "invalid end", http.StatusBadRequest)
		return
	}
	if !end.After(start) {
		http.Error(w, "end must be after start", http.StatusBadRequest)
		return
	}
	marginHours := 0.0
	if raw := strings.TrimSpace(q.Get("margin_hours")); raw != "" {
		marginHours, err = strconv.ParseFloat(raw, 64)
		if err != nil || marginHours < 0 {
			http.Error(w, "invalid margin_hours", http.StatusBadRequest)
			return
		}
	}

	res, err := h.svc.CheckAvailability(r.Context(), schedule.Query{
		EquipmentIDs:     equipmentIDs,
		Start:            start.UTC(),
		End:              end.UTC(),
		MarginHours:      marginHours,
		ExcludeBookingID: strings.TrimSpace(q.Get("exclude_booking_id")),
	})
	if err != nil {
		h.logger.Error("availability check failed", "err", err)
		http.Error(w, "failed to check availability", http.StatusInternalServerError)
		return
	}
	if res.Conflicts == nil {
		res.Conflicts = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *BookingHandler) emitBookingEvent(r *http.Request, eventType string, b model.Booking) {
	if h.events == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"booking_id":    b.ID,
		"client_id":     b.ClientID,
		"equipment_ids": b.EquipmentIDs,
		"site":          b.Site,
		"start":         b.Start.UTC().Format(time.RFC3339),
		"end":           b.End.UTC().Format(time.RFC3339),
		"hold_start":    b.HoldStart.UTC().Format(time.RFC3339),
		"hold_end":      b.HoldEnd.UTC().Format(time.RFC3339),
		"status":        string(b.Status),
	})
	if err != nil {
		h.logger.Error("failed to build booking event payload", "err", err)
		return
	}
	if err := h.events.InsertStandalone(r.Context(), outbox.Event{
		AggregateType: "booking",
		AggregateID:   b.ID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		h.logger.Error("failed to enqueue booking event", "err", err, "event_type", eventType)
	}
}
