package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/climatize/climatize/services/rental-service/internal/model"
	"github.com/climatize/climatize/services/rental-service/internal/schedule"
)

// Store is the persistence the lifecycle service needs. Both the in-memory
// store and the Postgres repositories satisfy it.
type Store interface {
	ListBookings(ctx context.Context) ([]model.Booking, error)
	GetBooking(ctx context.Context, id string) (model.Booking, error)
	InsertBooking(ctx context.Context, b model.Booking) error
	UpdateBooking(ctx context.Context, b model.Booking) error
	DeleteBooking(ctx context.Context, id string) error
	SetEquipmentStatus(ctx context.Context, id string, status model.EquipmentStatus) error
}

// Service owns booking lifecycle rules: hold-window maintenance, status
// transitions and the equipment status side effects. It stays permissive on
// business fields; request validation lives at the HTTP edge.
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// CreateInput carries the caller-supplied fields of a new booking. The hold
// window, status default and timestamps are filled in by Create.
type CreateInput struct {
	ClientID     string
	EquipmentIDs []string
	Site         string
	Address      string
	Start        time.Time
	End          time.Time
	MarginHours  float64
	Status       model.BookingStatus
	TotalPerDay  float64
	Days         int
	TotalAmount  float64
	Notes        string
}

// UpdateInput is a partial update: nil fields keep their stored value. When
// any of Start, End or MarginHours changes the hold window is recomputed so
// it never goes stale.
type UpdateInput struct {
	ClientID     *string
	EquipmentIDs []string
	Site         *string
	Address      *string
	Start        *time.Time
	End          *time.Time
	MarginHours  *float64
	Status       *model.BookingStatus
	TotalPerDay  *float64
	Days         *int
	TotalAmount  *float64
	Notes        *string
}

// CheckAvailability evaluates a requested window against every stored
// booking. Conflicts are advisory; callers decide whether to refuse the
// booking or just surface a warning.
func (s *Service) CheckAvailability(ctx context.Context, q schedule.Query) (schedule.Result, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return schedule.Result{}, fmt.Errorf("list bookings: %w", err)
	}
	return schedule.CheckAvailability(bookings, q), nil
}

// Create stores a new booking with its hold window precomputed and flips
// every referenced equipment line to reserved. Overlapping bookings are
// allowed; the availability check is a separate, advisory call.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Booking, error) {
	holdStart, holdEnd := schedule.HoldWindow(in.Start, in.End, in.MarginHours)

	status := in.Status
	if status == "" {
		status = model.BookingScheduled
	}

	b := model.Booking{
		ID:           s.newID(),
		ClientID:     in.ClientID,
		EquipmentIDs: in.EquipmentIDs,
		Site:         in.Site,
		Address:      in.Address,
		Start:        in.Start,
		End:          in.End,
		MarginHours:  in.MarginHours,
		HoldStart:    holdStart,
		HoldEnd:      holdEnd,
		Status:       status,
		TotalPerDay:  in.TotalPerDay,
		Days:         in.Days,
		TotalAmount:  in.TotalAmount,
		Notes:        in.Notes,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.InsertBooking(ctx, b); err != nil {
		return model.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	for _, id := range b.EquipmentIDs {
		if err := s.store.SetEquipmentStatus(ctx, id, model.EquipmentReserved); err != nil {
			return model.Booking{}, fmt.Errorf("reserve equipment %s: %w", id, err)
		}
	}
	return b, nil
}

// Get returns a stored booking or model.ErrBookingNotFound.
func (s *Service) Get(ctx context.Context, id string) (model.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

// List returns every stored booking.
func (s *Service) List(ctx context.Context) ([]model.Booking, error) {
	return s.store.ListBookings(ctx)
}

// Update applies a partial update to an existing booking. Status changes go
// through the transition graph, and any change to the event window or margin
// recomputes the hold window from the merged values.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (model.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}

	if in.Status != nil && *in.Status != b.Status {
		if err := checkTransition(b.Status, *in.Status); err != nil {
			return model.Booking{}, err
		}
		b.Status = *in.Status
	}

	if in.ClientID != nil {
		b.ClientID = *in.ClientID
	}
	if in.EquipmentIDs != nil {
		b.EquipmentIDs = in.EquipmentIDs
	}
	if in.Site != nil {
		b.Site = *in.Site
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}
	if in.TotalPerDay != nil {
		b.TotalPerDay = *in.TotalPerDay
	}
	if in.Days != nil {
		b.Days = *in.Days
	}
	if in.TotalAmount != nil {
		b.TotalAmount = *in.TotalAmount
	}

	windowChanged := false
	if in.Start != nil {
		b.Start = *in.Start
		windowChanged = true
	}
	if in.End != nil {
		b.End = *in.End
		windowChanged = true
	}
	if in.MarginHours != nil {
		b.MarginHours = *in.MarginHours
		windowChanged = true
	}
	if windowChanged {
		b.HoldStart, b.HoldEnd = schedule.HoldWindow(b.Start, b.End, b.MarginHours)
	}

	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return model.Booking{}, fmt.Errorf("update booking: %w", err)
	}
	return b, nil
}

// Delete removes a booking and flips every equipment line it referenced back
// to available. The reset is unconditional: a line still held by another
// booking comes back as available too, and the next availability check or
// booking creation corrects it. Counting live references here is not worth
// it for a single-operator fleet.
func (s *Service) Delete(ctx context.Context, id string) (model.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return model.Booking{}, fmt.Errorf("delete booking: %w", err)
	}
	for _, eqID := range b.EquipmentIDs {
		if err := s.store.SetEquipmentStatus(ctx, eqID, model.EquipmentAvailable); err != nil {
			return model.Booking{}, fmt.Errorf("release equipment %s: %w", eqID, err)
		}
	}
	return b, nil
}
