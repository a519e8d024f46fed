// Package reminder turns hold-window deadlines into outbox events. A
// delivery reminder fires when a scheduled booking's hold window is about to
// open (crew must head out with the units) and a pickup reminder when an
// installed booking's hold window is about to close.
package reminder

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/climatize/climatize/services/rental-service/internal/outbox"
	"github.com/climatize/climatize/services/rental-service/internal/storage"
)

type Worker struct {
	store     *storage.Postgres
	outbox    *outbox.Repository
	logger    *slog.Logger
	interval  time.Duration
	lookahead time.Duration
	batchSize int
	now       func() time.Time
}

type WorkerConfig struct {
	Interval  time.Duration
	Lookahead time.Duration
	BatchSize int
}

func NewWorker(store *storage.Postgres, outboxRepo *outbox.Repository, logger *slog.Logger, cfg WorkerConfig) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = 24 * time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Worker{
		store:     store,
		outbox:    outboxRepo,
		logger:    logger,
		interval:  cfg.Interval,
		lookahead: cfg.Lookahead,
		batchSize: cfg.BatchSize,
		now:       time.Now,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				w.logger.Error("reminder batch failed", "err", err)
			}
		}
	}
}

// processBatch emits due reminders and flips the notified flags in one
// transaction, so a crash never sends the same reminder twice.
func (w *Worker) processBatch(ctx context.Context) error {
	tx, err := w.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cutoff := w.now().UTC().Add(w.lookahead)

	deliveries, err := w.store.ListDeliveriesDue(ctx, tx, cutoff, w.batchSize)
	if err != nil {
		return err
	}
	if err := w.emit(ctx, tx, outbox.EventDeliveryDue, deliveries); err != nil {
		return err
	}
	var deliveryIDs []string
	for _, c := range deliveries {
		deliveryIDs = append(deliveryIDs, c.BookingID)
	}
	if err := w.store.MarkDeliveryNotified(ctx, tx, deliveryIDs); err != nil {
		return err
	}

	pickups, err := w.store.ListPickupsDue(ctx, tx, cutoff, w.batchSize)
	if err != nil {
		return err
	}
	if err := w.emit(ctx, tx, outbox.EventPickupDue, pickups); err != nil {
		return err
	}
	var pickupIDs []string
	for _, c := range pickups {
		pickupIDs = append(pickupIDs, c.BookingID)
	}
	if err := w.store.MarkPickupNotified(ctx, tx, pickupIDs); err != nil {
		return err
	}

	if n := len(deliveries) + len(pickups); n > 0 {
		w.logger.Info("reminders enqueued", "deliveries", len(deliveries), "pickups", len(pickups))
	}
	return tx.Commit(ctx)
}

func (w *Worker) emit(ctx context.Context, tx pgx.Tx, eventType string, candidates []storage.ReminderCandidate) error {
	for _, c := range candidates {
		payload, err := json.Marshal(map[string]any{
			"booking_id":   c.BookingID,
			"client_id":    c.ClientID,
			"client_name":  c.ClientName,
			"client_email": c.ClientEmail,
			"client_phone": c.ClientPhone,
			"site":         c.Site,
			"address":      c.Address,
			"hold_start":   c.HoldStart.UTC().Format(time.RFC3339),
			"hold_end":     c.HoldEnd.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		if err := w.outbox.Insert(ctx, tx, outbox.Event{
			AggregateType: "booking",
			AggregateID:   c.BookingID,
			EventType:     eventType,
			Payload:       payload,
		}); err != nil {
			return err
		}
	}
	return nil
}
