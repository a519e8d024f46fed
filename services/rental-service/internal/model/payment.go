package model

import "time"

type PaymentMethod string

const (
	PaymentPix      PaymentMethod = "pix"
	PaymentBoleto   PaymentMethod = "boleto"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card" // settled through Stripe Checkout
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentBoleto, PaymentTransfer, PaymentCash, PaymentCard:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

type Payment struct {
	ID              string        `json:"id"`
	ClientID        string        `json:"client_id"`
	BookingID       string        `json:"booking_id,omitempty"`
	Date            time.Time     `json:"date"`
	Amount          float64       `json:"amount"` // BRL
	Method          PaymentMethod `json:"method"`
	Status          PaymentStatus `json:"status"`
	DueDate         *time.Time    `json:"due_date,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	StripeSessionID string        `json:"stripe_session_id,omitempty"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
