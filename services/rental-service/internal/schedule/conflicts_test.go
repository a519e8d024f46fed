package schedule

import (
	"testing"
	"time"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

func mkBooking(id string, equipmentIDs []string, start, end time.Time, marginHours float64, status model.BookingStatus) model.Booking {
	holdStart, holdEnd := HoldWindow(start, end, marginHours)
	return model.Booking{
		ID:           id,
		EquipmentIDs: equipmentIDs,
		Start:        start,
		End:          end,
		MarginHours:  marginHours,
		HoldStart:    holdStart,
		HoldEnd:      holdEnd,
		Status:       status,
	}
}

func TestCheckAvailability_OverlapOnSharedLine(t *testing.T) {
	// Booking A holds E1 from 2024-01-15T03:00 to 2024-01-17T15:00 (6h margin).
	a := mkBooking("a", []string{"e1"},
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		6, model.BookingScheduled)

	// Request opens its hold at 2024-01-17T06:00, inside A's hold window.
	res := CheckAvailability([]model.Booking{a}, Query{
		EquipmentIDs: []string{"e1"},
		Start:        time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 1, 18, 9, 0, 0, 0, time.UTC),
		MarginHours:  6,
	})

	if res.Available {
		t.Fatal("expected conflict with booking a")
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].ID != "a" {
		t.Fatalf("conflicts = %+v, want [a]", res.Conflicts)
	}
}

func TestCheckAvailability_ExcludeSelf(t *testing.T) {
	a := mkBooking("a", []string{"e1"},
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		6, model.BookingScheduled)

	// Re-checking a booking's own window must not report the booking itself.
	res := CheckAvailability([]model.Booking{a}, Query{
		EquipmentIDs:     []string{"e1"},
		Start:            a.Start,
		End:              a.End,
		MarginHours:      a.MarginHours,
		ExcludeBookingID: "a",
	})

	if !res.Available || len(res.Conflicts) != 0 {
		t.Fatalf("expected no self-conflict, got %+v", res.Conflicts)
	}
}

func TestCheckAvailability_CanceledNeverConflicts(t *testing.T) {
	a := mkBooking("a", []string{"e1"},
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		6, model.BookingCanceled)

	res := CheckAvailability([]model.Booking{a}, Query{
		EquipmentIDs: []string{"e1"},
		Start:        a.Start,
		End:          a.End,
		MarginHours:  6,
	})

	if !res.Available || len(res.Conflicts) != 0 {
		t.Fatalf("canceled booking reported as conflict: %+v", res.Conflicts)
	}
}

func TestCheckAvailability_DisjointEquipment(t *testing.T) {
	a := mkBooking("a", []string{"e1", "e2"},
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		6, model.BookingScheduled)

	res := CheckAvailability([]model.Booking{a}, Query{
		EquipmentIDs: []string{"e3"},
		Start:        a.Start,
		End:          a.End,
		MarginHours:  6,
	})

	if !res.Available {
		t.Fatalf("disjoint equipment sets must not conflict: %+v", res.Conflicts)
	}
}

func TestCheckAvailability_TouchingBoundariesConflict(t *testing.T) {
	// A's hold window ends exactly where the request's hold window begins.
	a := mkBooking("a", []string{"e1"},
		time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC),
		0, model.BookingScheduled)

	res := CheckAvailability([]model.Booking{a}, Query{
		EquipmentIDs: []string{"e1"},
		Start:        a.End, // request holdStart == a.HoldEnd with zero margins
		End:          a.End.Add(24 * time.Hour),
		MarginHours:  0,
	})

	if res.Available {
		t.Fatal("windows touching at an endpoint must be treated as overlapping")
	}
}

func TestCheckAvailability_HoldWindowFallback(t *testing.T) {
	// Legacy booking without stored hold fields: the raw event window rules.
	legacy := model.Booking{
		ID:           "legacy",
		EquipmentIDs: []string{"e1"},
		Start:        time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		Status:       model.BookingScheduled,
	}

	res := CheckAvailability([]model.Booking{legacy}, Query{
		EquipmentIDs: []string{"e1"},
		Start:        time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC),
		MarginHours:  0,
	})
	if res.Available {
		t.Fatal("expected conflict inside the legacy event window")
	}

	// Just past the raw end: no stored hold window means no margin applies.
	res = CheckAvailability([]model.Booking{legacy}, Query{
		EquipmentIDs: []string{"e1"},
		Start:        legacy.End.Add(time.Second),
		End:          legacy.End.Add(24 * time.Hour),
		MarginHours:  0,
	})
	if !res.Available {
		t.Fatalf("expected no conflict after the legacy event window, got %+v", res.Conflicts)
	}
}

func TestCheckAvailability_EndToEndScenario(t *testing.T) {
	// The worked example: A holds E1 until 2024-01-17T15:00; the request's
	// hold opens at 06:00 the same day, so the line is busy.
	a := mkBooking("a", []string{"e1"},
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		6, model.BookingScheduled)
	b := mkBooking("b", []string{"e2"},
		time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 18, 9, 0, 0, 0, time.UTC),
		6, model.BookingScheduled)

	res := CheckAvailability([]model.Booking{a, b}, Query{
		EquipmentIDs: []string{"e1"},
		Start:        time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC),
		End:          time.Date(2024, 1, 18, 9, 0, 0, 0, time.UTC),
		MarginHours:  6,
	})

	if res.Available {
		t.Fatal("expected the request to conflict with booking a")
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].ID != "a" {
		t.Fatalf("conflicts = %+v, want exactly [a]", res.Conflicts)
	}
}
