package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/climatize/climatize/services/rental-service/internal/booking"
	"github.com/climatize/climatize/services/rental-service/internal/model"
	"github.com/climatize/climatize/services/rental-service/internal/schedule"
	"github.com/climatize/climatize/services/rental-service/internal/store"
)

func newBookingHandler(t *testing.T) (*BookingHandler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := booking.NewService(mem)
	return NewBookingHandler(svc, nil, logger), mem
}

func seedEquipment(t *testing.T, mem *store.Memory, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := mem.InsertEquipment(context.Background(), model.Equipment{
			ID:     id,
			Code:   id,
			Status: model.EquipmentAvailable,
		}); err != nil {
			t.Fatalf("seed equipment %s: %v", id, err)
		}
	}
}

func createBooking(t *testing.T, h *BookingHandler, body string) model.Booking {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(body))
	rw := httptest.NewRecorder()
	h.Collection(rw, req)
	if rw.Code != http.StatusCreated {
		t.Fatalf("create booking: expected 201, got %d: %s", rw.Code, rw.Body.String())
	}
	var b model.Booking
	if err := json.Unmarshal(rw.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return b
}

func TestCreateBookingReturnsHoldWindow(t *testing.T) {
	h, mem := newBookingHandler(t)
	seedEquipment(t, mem, "eq1")

	b := createBooking(t, h, `{
		"client_id": "c1",
		"equipment_ids": ["eq1"],
		"site": "Anhembi",
		"start": "2024-01-15T09:00:00Z",
		"end": "2024-01-17T09:00:00Z",
		"margin_hours": 6
	}`)

	if b.HoldStart.Format("2006-01-02T15:04:05Z") != "2024-01-15T03:00:00Z" {
		t.Errorf("hold_start = %v", b.HoldStart)
	}
	if b.HoldEnd.Format("2006-01-02T15:04:05Z") != "2024-01-17T15:00:00Z" {
		t.Errorf("hold_end = %v", b.HoldEnd)
	}
	if b.Status != model.BookingScheduled {
		t.Errorf("status = %s, want scheduled", b.Status)
	}

	eq, err := mem.GetEquipment(context.Background(), "eq1")
	if err != nil {
		t.Fatalf("GetEquipment: %v", err)
	}
	if eq.Status != model.EquipmentReserved {
		t.Errorf("equipment status = %s, want reserved", eq.Status)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	h, _ := newBookingHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing client", `{"site": "x", "equipment_ids": ["eq1"], "start": "2024-01-15T09:00:00Z", "end": "2024-01-17T09:00:00Z"}`},
		{"no equipment", `{"client_id": "c1", "site": "x", "start": "2024-01-15T09:00:00Z", "end": "2024-01-17T09:00:00Z"}`},
		{"bad start", `{"client_id": "c1", "site": "x", "equipment_ids": ["eq1"], "start": "tomorrow", "end": "2024-01-17T09:00:00Z"}`},
		{"end before start", `{"client_id": "c1", "site": "x", "equipment_ids": ["eq1"], "start": "2024-01-17T09:00:00Z", "end": "2024-01-15T09:00:00Z"}`},
		{"negative margin", `{"client_id": "c1", "site": "x", "equipment_ids": ["eq1"], "start": "2024-01-15T09:00:00Z", "end": "2024-01-17T09:00:00Z", "margin_hours": -1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(tc.body))
			rw := httptest.NewRecorder()
			h.Collection(rw, req)
			if rw.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rw.Code, rw.Body.String())
			}
		})
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	h, mem := newBookingHandler(t)
	seedEquipment(t, mem, "eq1", "eq2")

	created := createBooking(t, h, `{
		"client_id": "c1",
		"equipment_ids": ["eq1"],
		"site": "Anhembi",
		"start": "2024-01-15T09:00:00Z",
		"end": "2024-01-17T09:00:00Z",
		"margin_hours": 6
	}`)

	get := func(url string) schedule.Result {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rw := httptest.NewRecorder()
		h.Availability(rw, req)
		if rw.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rw.Code, rw.Body.String())
		}
		var res schedule.Result
		if err := json.Unmarshal(rw.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode availability response: %v", err)
		}
		return res
	}

	res := get("/api/v1/availability?equipment_ids=eq1&start=2024-01-16T09:00:00Z&end=2024-01-18T09:00:00Z&margin_hours=6")
	if res.Available || len(res.Conflicts) != 1 || res.Conflicts[0].ID != created.ID {
		t.Fatalf("overlap query: available=%v conflicts=%d", res.Available, len(res.Conflicts))
	}

	res = get("/api/v1/availability?equipment_ids=eq2&start=2024-01-16T09:00:00Z&end=2024-01-18T09:00:00Z&margin_hours=6")
	if !res.Available || len(res.Conflicts) != 0 {
		t.Fatalf("disjoint equipment query: available=%v conflicts=%d", res.Available, len(res.Conflicts))
	}

	res = get(fmt.Sprintf("/api/v1/availability?equipment_ids=eq1&start=2024-01-16T09:00:00Z&end=2024-01-18T09:00:00Z&margin_hours=6&exclude_booking_id=%s", created.ID))
	if !res.Available {
		t.Fatalf("self-excluded query should be available, conflicts=%d", len(res.Conflicts))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?start=2024-01-16T09:00:00Z&end=2024-01-18T09:00:00Z", nil)
	rw := httptest.NewRecorder()
	h.Availability(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("missing equipment_ids: expected 400, got %d", rw.Code)
	}
}

func TestUpdateBookingStatusTransition(t *testing.T) {
	h, mem := newBookingHandler(t)
	seedEquipment(t, mem, "eq1")

	b := createBooking(t, h, `{
		"client_id": "c1",
		"equipment_ids": ["eq1"],
		"site": "Anhembi",
		"start": "2024-01-15T09:00:00Z",
		"end": "2024-01-17T09:00:00Z",
		"margin_hours": 6
	}`)

	update := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/update", bytes.NewBufferString(body))
		rw := httptest.NewRecorder()
		h.Update(rw, req)
		return rw
	}

	rw := update(fmt.Sprintf(`{"id": %q, "status": "returned"}`, b.ID))
	if rw.Code != http.StatusConflict {
		t.Fatalf("scheduled -> returned: expected 409, got %d: %s", rw.Code, rw.Body.String())
	}

	rw = update(fmt.Sprintf(`{"id": %q, "status": "installed"}`, b.ID))
	if rw.Code != http.StatusOK {
		t.Fatalf("scheduled -> installed: expected 200, got %d: %s", rw.Code, rw.Body.String())
	}

	rw = update(`{"id": "does-not-exist", "status": "installed"}`)
	if rw.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", rw.Code)
	}
}

func TestUpdateBookingRecomputesHoldWindow(t *testing.T) {
	h, mem := newBookingHandler(t)
	seedEquipment(t, mem, "eq1")

	b := createBooking(t, h, `{
		"client_id": "c1",
		"equipment_ids": ["eq1"],
		"site": "Anhembi",
		"start": "2024-01-15T09:00:00Z",
		"end": "2024-01-17T09:00:00Z",
		"margin_hours": 6
	}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/update",
		bytes.NewBufferString(fmt.Sprintf(`{"id": %q, "margin_hours": 8}`, b.ID)))
	rw := httptest.NewRecorder()
	h.Update(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rw.Code, rw.Body.String())
	}
	var updated model.Booking
	if err := json.Unmarshal(rw.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.HoldStart.Format("2006-01-02T15:04:05Z") != "2024-01-15T01:00:00Z" {
		t.Errorf("hold_start = %v after margin change", updated.HoldStart)
	}
	if updated.HoldEnd.Format("2006-01-02T15:04:05Z") != "2024-01-17T17:00:00Z" {
		t.Errorf("hold_end = %v after margin change", updated.HoldEnd)
	}
}

func TestDeleteBookingReleasesEquipment(t *testing.T) {
	h, mem := newBookingHandler(t)
	seedEquipment(t, mem, "eq1")

	b := createBooking(t, h, `{
		"client_id": "c1",
		"equipment_ids": ["eq1"],
		"site": "Anhembi",
		"start": "2024-01-15T09:00:00Z",
		"end": "2024-01-17T09:00:00Z",
		"margin_hours": 6
	}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/delete",
		bytes.NewBufferString(fmt.Sprintf(`{"id": %q}`, b.ID)))
	rw := httptest.NewRecorder()
	h.Delete(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rw.Code, rw.Body.String())
	}

	eq, err := mem.GetEquipment(context.Background(), "eq1")
	if err != nil {
		t.Fatalf("GetEquipment: %v", err)
	}
	if eq.Status != model.EquipmentAvailable {
		t.Errorf("equipment status = %s after delete, want available", eq.Status)
	}

	rw = httptest.NewRecorder()
	h.Delete(rw, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/delete",
		bytes.NewBufferString(fmt.Sprintf(`{"id": %q}`, b.ID))))
	if rw.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rw.Code)
	}
}
