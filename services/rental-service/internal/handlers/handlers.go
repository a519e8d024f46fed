// Package handlers is the HTTP edge of the rental service. Validation of
// required fields happens here; everything past this layer trusts its
// input.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/climatize/climatize/services/rental-service/internal/model"
	"github.com/climatize/climatize/services/rental-service/internal/outbox"
)

// Emitter enqueues domain events for publishing. Nil-able: without Postgres
// and Kafka the handlers simply skip event emission.
type Emitter interface {
	InsertStandalone(ctx context.Context, evt outbox.Event) error
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeStoreError maps the model sentinels onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrBookingNotFound),
		errors.Is(err, model.ErrEquipmentNotFound),
		errors.Is(err, model.ErrClientNotFound),
		errors.Is(err, model.ErrPaymentNotFound),
		errors.Is(err, model.ErrQuoteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
