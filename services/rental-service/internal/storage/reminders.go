package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// ReminderCandidate is a booking whose hold window crosses a reminder
// cutoff, joined with the client's contact details so the event payload is
// self-contained.
type ReminderCandidate struct {
	BookingID   string
	ClientID    string
	ClientName  string
	ClientEmail string
	ClientPhone string
	Site        string
	Address     string
	HoldStart   time.Time
	HoldEnd     time.Time
}

func (p *Postgres) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.pool.Begin(ctx)
}

// ListDeliveriesDue returns scheduled bookings whose hold window opens at or
// before cutoff and that have not had a delivery reminder yet. Rows are
// locked so concurrent workers never double-remind.
func (p *Postgres) ListDeliveriesDue(ctx context.Context, tx pgx.Tx, cutoff time.Time, limit int) ([]ReminderCandidate, error) {
	rows, err := tx.Query(ctx, `
		SELECT b.id, b.client_id, c.name, COALESCE(c.email, ''), COALESCE(c.phone, ''),
			b.site, COALESCE(b.address, ''), COALESCE(b.hold_start, b.start_time), COALESCE(b.hold_end, b.end_time)
		FROM bookings b
		JOIN clients c ON c.id = b.client_id
		WHERE b.status = 'scheduled'
			AND COALESCE(b.hold_start, b.start_time) <= $1
			AND b.delivery_notified_at IS NULL
		ORDER BY COALESCE(b.hold_start, b.start_time) ASC
		LIMIT $2
		FOR UPDATE OF b SKIP LOCKED
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminderCandidates(rows)
}

// ListPickupsDue returns installed bookings whose hold window closes at or
// before cutoff and that have not had a pickup reminder yet.
func (p *Postgres) ListPickupsDue(ctx context.Context, tx pgx.Tx, cutoff time.Time, limit int) ([]ReminderCandidate, error) {
	rows, err := tx.Query(ctx, `
		SELECT b.id, b.client_id, c.name, COALESCE(c.email, ''), COALESCE(c.phone, ''),
			b.site, COALESCE(b.address, ''), COALESCE(b.hold_start, b.start_time), COALESCE(b.hold_end, b.end_time)
		FROM bookings b
		JOIN clients c ON c.id = b.client_id
		WHERE b.status = 'installed'
			AND COALESCE(b.hold_end, b.end_time) <= $1
			AND b.pickup_notified_at IS NULL
		ORDER BY COALESCE(b.hold_end, b.end_time) ASC
		LIMIT $2
		FOR UPDATE OF b SKIP LOCKED
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminderCandidates(rows)
}

func (p *Postgres) MarkDeliveryNotified(ctx context.Context, tx pgx.Tx, bookingIDs []string) error {
	if len(bookingIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE bookings
		SET delivery_notified_at = now()
		WHERE id = ANY($1)
	`, bookingIDs)
	return err
}

func (p *Postgres) MarkPickupNotified(ctx context.Context, tx pgx.Tx, bookingIDs []string) error {
	if len(bookingIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE bookings
		SET pickup_notified_at = now()
		WHERE id = ANY($1)
	`, bookingIDs)
	return err
}

func scanReminderCandidates(rows pgx.Rows) ([]ReminderCandidate, error) {
	var out []ReminderCandidate
	for rows.Next() {
		var rc ReminderCandidate
		if err := rows.Scan(
			&rc.BookingID,
			&rc.ClientID,
			&rc.ClientName,
			&rc.ClientEmail,
			&rc.ClientPhone,
			&rc.Site,
			&rc.Address,
			&rc.HoldStart,
			&rc.HoldEnd,
		); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
