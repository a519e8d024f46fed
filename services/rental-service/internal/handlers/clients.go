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

type ClientHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewClientHandler(s store.Store, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{store: s, logger: logger}
}

type clientRequest struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Company           string   `json:"company"`
	Doc               string   `json:"doc"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	WhatsApp          string   `json:"whatsapp"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	SafetyMarginHours *float64 `json:"safety_margin_hours"`
	IsVIP             *bool    `json:"is_vip"`
	Status            string   `json:"status"`
	Tags              []string `json:"tags"`
	Notes             string   `json:"notes"`
}

func (h *ClientHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		clients, err := h.store.ListClients(r.Context())
		if err != nil {
			h.logger.Error("list clients failed", "err", err)
			http.Error(w, "failed to list clients", http.StatusInternalServerError)
			return
		}
		if clients == nil {
			clients = []model.Client{}
		}
		writeJSON(w, http.StatusOK, clients)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ClientHandler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	status := model.ClientStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.ClientActive
	}
	if status != model.ClientActive && status != model.ClientInactive {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	c := model.Client{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Company:   strings.TrimSpace(req.Company),
		Doc:       strings.TrimSpace(req.Doc),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		WhatsApp:  strings.TrimSpace(req.WhatsApp),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		Status:    status,
		Tags:      req.Tags,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if req.SafetyMarginHours != nil && *req.SafetyMarginHours >= 0 {
		c.SafetyMarginHours = *req.SafetyMarginHours
	} else {
		c.SafetyMarginHours = 6
	}
	if req.IsVIP != nil {
		c.IsVIP = *req.IsVIP
	}

	if err := h.store.InsertClient(r.Context(), c); err != nil {
		h.logger.Error("create client failed", "err", err)
		http.Error(w, "failed to create client", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	c, err := h.store.GetClient(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	c, err := h.store.GetClient(r.Context(), req.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(req.Company); v != "" {
		c.Company = v
	}
	if v := strings.TrimSpace(req.Doc); v != "" {
		c.Doc = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		c.Email = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		c.Phone = v
	}
	if v := strings.TrimSpace(req.WhatsApp); v != "" {
		c.WhatsApp = v
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		c.Address = v
	}
	if v := strings.TrimSpace(req.City); v != "" {
		c.City = v
	}
	if v := strings.TrimSpace(req.State); v != "" {
		c.State = v
	}
	if v := strings.TrimSpace(req.Status); v != "" {
		status := model.ClientStatus(v)
		if status != model.ClientActive && status != model.ClientInactive {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		c.Status = status
	}
	if req.SafetyMarginHours != nil && *req.SafetyMarginHours >= 0 {
		c.SafetyMarginHours = *req.SafetyMarginHours
	}
	if req.IsVIP != nil {
		c.IsVIP = *req.IsVIP
	}
	if req.Tags != nil {
		c.Tags = req.Tags
	}
	if req.Notes != "" {
		c.Notes = req.Notes
	}

	if err := h.store.UpdateClient(r.Context(), c); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.store.DeleteClient(r.Context(), req.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID, "status": "deleted"})
}
