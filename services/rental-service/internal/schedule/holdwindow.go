// Package schedule implements the hold-window arithmetic and the
// availability scan used by the booking workflow. Everything here is pure:
// callers load bookings from the store and decide what to do with conflicts.
package schedule

import "time"

// HoldWindow expands an event window by marginHours on each side to cover
// installation before the event and teardown after it. Plain duration
// arithmetic, no calendar or timezone normalization; a zero margin returns
// the event window unchanged. start <= end is the caller's responsibility.
func HoldWindow(start, end time.Time, marginHours float64) (holdStart, holdEnd time.Time) {
	margin := time.Duration(marginHours * float64(time.Hour))
	return start.Add(-margin), end.Add(margin)
}
