package model

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrClientNotFound    = errors.New("client not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)
