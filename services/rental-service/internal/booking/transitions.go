package booking

import (
	"fmt"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

// allowedTransitions is the booking status graph: scheduled bookings get
// installed then returned, and can be canceled up until installation ends.
// Returned and canceled are terminal; re-opening means creating a new
// booking.
var allowedTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingScheduled: {model.BookingInstalled, model.BookingCanceled},
	model.BookingInstalled: {model.BookingReturned, model.BookingCanceled},
	model.BookingReturned:  {},
	model.BookingCanceled:  {},
}

// CanTransition reports whether from -> to is an allowed status change.
// Same-status writes are allowed so partial updates can resend the current
// status unchanged.
func CanTransition(from, to model.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to model.BookingStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, from, to)
	}
	return nil
}
