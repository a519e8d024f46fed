package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

func TestMemoryBookingCRUD(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	b := model.Booking{ID: "b1", Site: "warehouse", Status: model.BookingScheduled}
	if err := m.InsertBooking(ctx, b); err != nil {
		t.Fatalf("InsertBooking: %v", err)
	}

	got, err := m.GetBooking(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.Site != "warehouse" {
		t.Errorf("site = %q, want warehouse", got.Site)
	}

	b.Site = "arena"
	if err := m.UpdateBooking(ctx, b); err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
	got, _ = m.GetBooking(ctx, "b1")
	if got.Site != "arena" {
		t.Errorf("site after update = %q, want arena", got.Site)
	}

	if err := m.DeleteBooking(ctx, "b1"); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if _, err := m.GetBooking(ctx, "b1"); !errors.Is(err, model.ErrBookingNotFound) {
		t.Errorf("GetBooking after delete err = %v, want ErrBookingNotFound", err)
	}
	if err := m.UpdateBooking(ctx, b); !errors.Is(err, model.ErrBookingNotFound) {
		t.Errorf("UpdateBooking on missing err = %v, want ErrBookingNotFound", err)
	}
	if err := m.DeleteBooking(ctx, "b1"); !errors.Is(err, model.ErrBookingNotFound) {
		t.Errorf("DeleteBooking on missing err = %v, want ErrBookingNotFound", err)
	}
}

func TestMemorySetEquipmentStatus(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.InsertEquipment(ctx, model.Equipment{ID: "eq1", Status: model.EquipmentAvailable}); err != nil {
		t.Fatalf("InsertEquipment: %v", err)
	}
	if err := m.SetEquipmentStatus(ctx, "eq1", model.EquipmentReserved); err != nil {
		t.Fatalf("SetEquipmentStatus: %v", err)
	}
	e, _ := m.GetEquipment(ctx, "eq1")
	if e.Status != model.EquipmentReserved {
		t.Errorf("status = %s, want reserved", e.Status)
	}
	if err := m.SetEquipmentStatus(ctx, "missing", model.EquipmentReserved); !errors.Is(err, model.ErrEquipmentNotFound) {
		t.Errorf("err = %v, want ErrEquipmentNotFound", err)
	}
}

func TestMemoryPaymentByStripeSession(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.InsertPayment(ctx, model.Payment{ID: "p1", StripeSessionID: "cs_test_123"}); err != nil {
		t.Fatalf("InsertPayment: %v", err)
	}
	p, err := m.GetPaymentByStripeSession(ctx, "cs_test_123")
	if err != nil {
		t.Fatalf("GetPaymentByStripeSession: %v", err)
	}
	if p.ID != "p1" {
		t.Errorf("payment ID = %s, want p1", p.ID)
	}
	if _, err := m.GetPaymentByStripeSession(ctx, "cs_other"); !errors.Is(err, model.ErrPaymentNotFound) {
		t.Errorf("err = %v, want ErrPaymentNotFound", err)
	}
	// An empty session ID never matches, even against payments that carry
	// no session.
	if err := m.InsertPayment(ctx, model.Payment{ID: "p2"}); err != nil {
		t.Fatalf("InsertPayment: %v", err)
	}
	if _, err := m.GetPaymentByStripeSession(ctx, ""); !errors.Is(err, model.ErrPaymentNotFound) {
		t.Errorf("empty session err = %v, want ErrPaymentNotFound", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	m := NewMemory()
	loaded, err := m.EnableSnapshot(path, nil)
	if err != nil {
		t.Fatalf("EnableSnapshot: %v", err)
	}
	if loaded {
		t.Fatal("loaded = true for a fresh path")
	}

	if err := m.InsertClient(ctx, model.Client{ID: "c1", Name: "João Silva", Status: model.ClientActive}); err != nil {
		t.Fatalf("InsertClient: %v", err)
	}
	if err := m.InsertBooking(ctx, model.Booking{ID: "b1", ClientID: "c1", Status: model.BookingScheduled}); err != nil {
		t.Fatalf("InsertBooking: %v", err)
	}

	restored := NewMemory()
	loaded, err = restored.EnableSnapshot(path, nil)
	if err != nil {
		t.Fatalf("EnableSnapshot reload: %v", err)
	}
	if !loaded {
		t.Fatal("loaded = false after a snapshot was written")
	}
	c, err := restored.GetClient(ctx, "c1")
	if err != nil {
		t.Fatalf("GetClient after reload: %v", err)
	}
	if c.Name != "João Silva" {
		t.Errorf("client name = %q after reload", c.Name)
	}
	if _, err := restored.GetBooking(ctx, "b1"); err != nil {
		t.Fatalf("GetBooking after reload: %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	if err := Seed(ctx, m, now); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	clients, _ := m.ListClients(ctx)
	equipment, _ := m.ListEquipment(ctx)
	bookings, _ := m.ListBookings(ctx)
	if len(clients) != 3 || len(equipment) != 3 || len(bookings) != 2 {
		t.Fatalf("seeded %d clients, %d equipment, %d bookings; want 3/3/2",
			len(clients), len(equipment), len(bookings))
	}

	// Seeded bookings carry consistent hold windows.
	for _, b := range bookings {
		wantStart := b.Start.Add(-time.Duration(b.MarginHours * float64(time.Hour)))
		wantEnd := b.End.Add(time.Duration(b.MarginHours * float64(time.Hour)))
		if !b.HoldStart.Equal(wantStart) || !b.HoldEnd.Equal(wantEnd) {
			t.Errorf("booking %s hold window [%v, %v] disagrees with margin %v",
				b.ID, b.HoldStart, b.HoldEnd, b.MarginHours)
		}
	}

	if err := Seed(ctx, m, now); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	clients, _ = m.ListClients(ctx)
	if len(clients) != 3 {
		t.Errorf("second seed duplicated clients: %d", len(clients))
	}
}
