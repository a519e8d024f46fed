package model

import "time"

type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingInstalled BookingStatus = "installed"
	BookingReturned  BookingStatus = "returned"
	BookingCanceled  BookingStatus = "canceled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingScheduled, BookingInstalled, BookingReturned, BookingCanceled:
		return true
	}
	return false
}

// Booking reserves one or more equipment lines for a client event over
// [Start, End]. HoldStart/HoldEnd are the margin-expanded window used for
// conflict detection; they are computed when the booking is created or
// updated, never lazily, so they must always agree with
// Start/End/MarginHours. A zero HoldStart/HoldEnd means the booking predates
// hold windows and readers fall back to the raw event window.
type Booking struct {
	ID           string        `json:"id"`
	ClientID     string        `json:"client_id"`
	EquipmentIDs []string      `json:"equipment_ids"`
	Site         string        `json:"site"`
	Address      string        `json:"address"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	MarginHours  float64       `json:"margin_hours"` // setup/teardown buffer, UI keeps it in 6..8
	HoldStart    time.Time     `json:"hold_start,omitempty"`
	HoldEnd      time.Time     `json:"hold_end,omitempty"`
	Status       BookingStatus `json:"status"`
	TotalPerDay  float64       `json:"total_per_day,omitempty"`
	Days         int           `json:"days,omitempty"`
	TotalAmount  float64       `json:"total_amount,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`

	// One-shot reminder flags, set by the reminder worker.
	DeliveryNotifiedAt *time.Time `json:"delivery_notified_at,omitempty"`
	PickupNotifiedAt   *time.Time `json:"pickup_notified_at,omitempty"`
}

// SharesEquipment reports whether the booking references any of the given
// equipment line IDs.
func (b Booking) SharesEquipment(equipmentIDs []string) bool {
	for _, mine := range b.EquipmentIDs {
		for _, theirs := range equipmentIDs {
			if mine == theirs {
				return true
			}
		}
	}
	return false
}
