// Package store defines the persistence surface of the rental service and
// provides an in-memory implementation for local runs and tests. The
// Postgres implementation lives in internal/storage.
package store

import (
	"context"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

// Store is the full persistence surface across all aggregates. Get methods
// return the model sentinel errors (model.ErrBookingNotFound and friends)
// when the ID is unknown, and Update/Delete do the same instead of silently
// writing nothing.
type Store interface {
	ListBookings(ctx context.Context) ([]model.Booking, error)
	GetBooking(ctx context.Context, id string) (model.Booking, error)
	InsertBooking(ctx context.Context, b model.Booking) error
	UpdateBooking(ctx context.Context, b model.Booking) error
	DeleteBooking(ctx context.Context, id string) error

	ListEquipment(ctx context.Context) ([]model.Equipment, error)
	GetEquipment(ctx context.Context, id string) (model.Equipment, error)
	InsertEquipment(ctx context.Context, e model.Equipment) error
	UpdateEquipment(ctx context.Context, e model.Equipment) error
	DeleteEquipment(ctx context.Context, id string) error
	SetEquipmentStatus(ctx context.Context, id string, status model.EquipmentStatus) error

	ListClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, id string) (model.Client, error)
	InsertClient(ctx context.Context, c model.Client) error
	UpdateClient(ctx context.Context, c model.Client) error
	DeleteClient(ctx context.Context, id string) error

	ListPayments(ctx context.Context) ([]model.Payment, error)
	GetPayment(ctx context.Context, id string) (model.Payment, error)
	GetPaymentByStripeSession(ctx context.Context, sessionID string) (model.Payment, error)
	InsertPayment(ctx context.Context, p model.Payment) error
	UpdatePayment(ctx context.Context, p model.Payment) error
	DeletePayment(ctx context.Context, id string) error

	ListQuotes(ctx context.Context) ([]model.Quote, error)
	GetQuote(ctx context.Context, id string) (model.Quote, error)
	InsertQuote(ctx context.Context, q model.Quote) error
	UpdateQuote(ctx context.Context, q model.Quote) error
	DeleteQuote(ctx context.Context, id string) error
}
