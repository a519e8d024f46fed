package schedule

import (
	"time"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

// Query describes a requested reservation to test against existing bookings.
type Query struct {
	EquipmentIDs []string
	Start        time.Time
	End          time.Time
	MarginHours  float64
	// ExcludeBookingID skips one booking, so an edit form can check a
	// booking's new window without colliding with its own stored one.
	ExcludeBookingID string
}

// Result reports the outcome of an availability check. Conflicts carries the
// full overlapping bookings so callers can show site and dates in a warning.
type Result struct {
	Available bool            `json:"available"`
	Conflicts []model.Booking `json:"conflicts"`
}

// CheckAvailability scans every booking and collects those whose hold window
// overlaps the requested one on at least one shared equipment line. Canceled
// bookings never hold equipment. A linear scan is fine at this fleet size.
//
// Availability is per equipment line, not per unit: one overlapping booking
// marks the whole line as conflicting no matter how many spare units the
// line has. Conflicts are therefore advisory; the caller decides whether to
// block or just warn.
func CheckAvailability(bookings []model.Booking, q Query) Result {
	holdStart, holdEnd := HoldWindow(q.Start, q.End, q.MarginHours)

	var conflicts []model.Booking
	for _, b := range bookings {
		if q.ExcludeBookingID != "" && b.ID == q.ExcludeBookingID {
			continue
		}
		if b.Status == model.BookingCanceled {
			continue
		}
		if !b.SharesEquipment(q.EquipmentIDs) {
			continue
		}

		bStart, bEnd := effectiveWindow(b)
		if !overlaps(holdStart, holdEnd, bStart, bEnd) {
			continue
		}
		conflicts = append(conflicts, b)
	}

	return Result{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}
}

// effectiveWindow prefers the stored hold window and falls back to the raw
// event window for bookings that predate hold-window fields.
func effectiveWindow(b model.Booking) (time.Time, time.Time) {
	start, end := b.HoldStart, b.HoldEnd
	if start.IsZero() {
		start = b.Start
	}
	if end.IsZero() {
		end = b.End
	}
	return start, end
}

// overlaps uses inclusive boundaries: windows that merely touch at an
// endpoint still conflict, since two crews cannot swap the same unit at the
// same instant.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(aEnd.Before(bStart) || aStart.After(bEnd))
}
