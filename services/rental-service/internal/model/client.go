package model

import "time"

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Client is a data bag owned by the store; bookings, payments and quotes
// reference it by ID only.
type Client struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Company           string       `json:"company,omitempty"`
	Doc               string       `json:"doc,omitempty"` // CPF/CNPJ
	Email             string       `json:"email,omitempty"`
	Phone             string       `json:"phone,omitempty"`
	WhatsApp          string       `json:"whatsapp,omitempty"`
	Address           string       `json:"address,omitempty"`
	City              string       `json:"city,omitempty"`
	State             string       `json:"state,omitempty"`
	SafetyMarginHours float64      `json:"safety_margin_hours"` // default margin suggested to the booking form
	IsVIP             bool         `json:"is_vip"`
	Status            ClientStatus `json:"status"`
	Tags              []string     `json:"tags,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
}
