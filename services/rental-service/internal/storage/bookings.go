package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

const bookingColumns = `
	id, client_id, equipment_ids, site, COALESCE(address, ''),
	start_time, end_time, margin_hours, hold_start, hold_end, status,
	total_per_day, days, total_amount, COALESCE(notes, ''),
	delivery_notified_at, pickup_notified_at, created_at`

func (p *Postgres) ListBookings(ctx context.Context) ([]model.Booking, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		ORDER BY start_time ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (p *Postgres) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	b, err := scanBooking(p.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id))
	if err != nil {
		return model.Booking{}, asNotFound(err, model.ErrBookingNotFound)
	}
	return b, nil
}

func (p *Postgres) InsertBooking(ctx context.Context, b model.Booking) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO bookings
			(id, client_id, equipment_ids, site, address, start_time, end_time,
			 margin_hours, hold_start, hold_end, status, total_per_day, days,
			 total_amount, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, b.ID, b.ClientID, b.EquipmentIDs, b.Site, b.Address, b.Start, b.End,
		b.MarginHours, nullableTime(b.HoldStart), nullableTime(b.HoldEnd), b.Status,
		b.TotalPerDay, b.Days, b.TotalAmount, b.Notes, b.CreatedAt)
	return err
}

func (p *Postgres) UpdateBooking(ctx context.Context, b model.Booking) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE bookings
		SET client_id = $2,
			equipment_ids = $3,
			site = $4,
			address = $5,
			start_time = $6,
			end_time = $7,
			margin_hours = $8,
			hold_start = $9,
			hold_end = $10,
			status = $11,
			total_per_day = $12,
			days = $13,
			total_amount = $14,
			notes = $15,
			delivery_notified_at = $16,
			pickup_notified_at = $17
		WHERE id = $1
	`, b.ID, b.ClientID, b.EquipmentIDs, b.Site, b.Address, b.Start, b.End,
		b.MarginHours, nullableTime(b.HoldStart), nullableTime(b.HoldEnd), b.Status,
		b.TotalPerDay, b.Days, b.TotalAmount, b.Notes,
		b.DeliveryNotifiedAt, b.PickupNotifiedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

func (p *Postgres) DeleteBooking(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

func scanBookings(rows pgx.Rows) ([]model.Booking, error) {
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanBooking(row pgx.Row) (model.Booking, error) {
	var b model.Booking
	var holdStart, holdEnd *time.Time
	err := row.Scan(
		&b.ID,
		&b.ClientID,
		&b.EquipmentIDs,
		&b.Site,
		&b.Address,
		&b.Start,
		&b.End,
		&b.MarginHours,
		&holdStart,
		&holdEnd,
		&b.Status,
		&b.TotalPerDay,
		&b.Days,
		&b.TotalAmount,
		&b.Notes,
		&b.DeliveryNotifiedAt,
		&b.PickupNotifiedAt,
		&b.CreatedAt,
	)
	if err != nil {
		return model.Booking{}, err
	}
	// NULL hold columns stay as the zero time, which readers treat as "use
	// the raw event window".
	if holdStart != nil {
		b.HoldStart = *holdStart
	}
	if holdEnd != nil {
		b.HoldEnd = *holdEnd
	}
	return b, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
