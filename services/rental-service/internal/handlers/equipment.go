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

type EquipmentHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewEquipmentHandler(s store.Store, logger *slog.Logger) *EquipmentHandler {
	return &EquipmentHandler{store: s, logger: logger}
}

type equipmentRequest struct {
	ID              string         `json:"id"`
	Code            string         `json:"code"`
	Model           string         `json:"model"`
	Name            string         `json:"name"`
	Status          string         `json:"status"`
	AirflowM3h      int            `json:"airflow_m3h"`
	MotorW          int            `json:"motor_w"`
	NoiseDb         int            `json:"noise_db"`
	TankL           int            `json:"tank_l"`
	Quantity        model.Quantity `json:"quantity"`
	LastMaintenance *time.Time     `json:"last_maintenance"`
	Notes           string         `json:"notes"`
}

func (h *EquipmentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := h.store.ListEquipment(r.Context())
		if err != nil {
			h.logger.Error("list equipment failed", "err", err)
			http.Error(w, "failed to list equipment", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []model.Equipment{}
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *EquipmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		http.Error(w, "code and name required", http.StatusBadRequest)
		return
	}
	status := model.EquipmentStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.EquipmentAvailable
	}
	if !status.Valid() {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	e := model.Equipment{
		ID:              uuid.NewString(),
		Code:            req.Code,
		Model:           strings.TrimSpace(req.Model),
		Name:            req.Name,
		Status:          status,
		AirflowM3h:      req.AirflowM3h,
		MotorW:          req.MotorW,
		NoiseDb:         req.NoiseDb,
		TankL:           req.TankL,
		Quantity:        req.Quantity,
		LastMaintenance: req.LastMaintenance,
		Notes:           req.Notes,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.store.InsertEquipment(r.Context(), e); err != nil {
		h.logger.Error("create equipment failed", "err", err)
		http.Error(w, "failed to create equipment", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}
	e, err := h.store.GetEquipment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req equipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	e, err := h.store.GetEquipment(r.Context(), req.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if v := strings.TrimSpace(req.Code); v != "" {
		e.Code = v
	}
	if v := strings.TrimSpace(req.Model); v != "" {
		e.Model = v
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		e.Name = v
	}
	if v := strings.TrimSpace(req.Status); v != "" {
		status := model.EquipmentStatus(v)
		if !status.Valid() {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		e.Status = status
	}
	if req.AirflowM3h > 0 {
		e.AirflowM3h = req.AirflowM3h
	}
	if req.MotorW > 0 {
		e.MotorW = req.MotorW
	}
	if req.NoiseDb > 0 {
		e.NoiseDb = req.NoiseDb
	}
	if req.TankL > 0 {
		e.TankL = req.TankL
	}
	if req.Quantity != (model.Quantity{}) {
		e.Quantity = req.Quantity
	}
	if req.LastMaintenance != nil {
		e.LastMaintenance = req.LastMaintenance
	}
	if req.Notes != "" {
		e.Notes = req.Notes
	}

	if err := h.store.UpdateEquipment(r.Context(), e); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.store.DeleteEquipment(r.Context(), req.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID, "status": "deleted"})
}

// SetStatus flips an equipment line between available, reserved and
// maintenance without touching the rest of the record.
func (h *EquipmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	status := model.EquipmentStatus(strings.TrimSpace(req.Status))
	if req.ID == "" || !status.Valid() {
		http.Error(w, "id and a valid status required", http.StatusBadRequest)
		return
	}
	if err := h.store.SetEquipmentStatus(r.Context(), req.ID, status); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID, "status": string(status)})
}
