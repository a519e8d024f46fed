package model

import "time"

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

type QuoteItem struct {
	EquipmentID string  `json:"equipment_id"`
	Quantity    int     `json:"quantity"`
	Days        int     `json:"days"`
	DailyRate   float64 `json:"daily_rate"`
	Total       float64 `json:"total"`
}

type Quote struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"client_id"`
	BookingID  string      `json:"booking_id,omitempty"`
	Title      string      `json:"title"`
	Items      []QuoteItem `json:"items"`
	Subtotal   float64     `json:"subtotal"`
	Discount   float64     `json:"discount"`
	Taxes      float64     `json:"taxes"`
	Total      float64     `json:"total"`
	ValidUntil time.Time   `json:"valid_until"`
	Status     QuoteStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
