package booking

import (
	"testing"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to model.BookingStatus
		want     bool
	}{
		{model.BookingScheduled, model.BookingInstalled, true},
		{model.BookingScheduled, model.BookingCanceled, true},
		{model.BookingScheduled, model.BookingReturned, false},
		{model.BookingInstalled, model.BookingReturned, true},
		{model.BookingInstalled, model.BookingCanceled, true},
		{model.BookingInstalled, model.BookingScheduled, false},
		{model.BookingReturned, model.BookingScheduled, false},
		{model.BookingReturned, model.BookingCanceled, false},
		{model.BookingCanceled, model.BookingScheduled, false},
		{model.BookingCanceled, model.BookingInstalled, false},
		{model.BookingScheduled, model.BookingScheduled, true},
		{model.BookingReturned, model.BookingReturned, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
