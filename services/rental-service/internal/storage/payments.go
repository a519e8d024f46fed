package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

const paymentColumns = `
	id, client_id, COALESCE(booking_id, ''), date, amount, method, status,
	due_date, COALESCE(notes, ''), COALESCE(stripe_session_id, ''), paid_at,
	created_at`

func (p *Postgres) ListPayments(ctx context.Context) ([]model.Payment, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		ORDER BY date DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		pay, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pay)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (p *Postgres) GetPayment(ctx context.Context, id string) (model.Payment, error) {
	pay, err := scanPayment(p.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1
	`, id))
	if err != nil {
		return model.Payment{}, asNotFound(err, model.ErrPaymentNotFound)
	}
	return pay, nil
}

func (p *Postgres) GetPaymentByStripeSession(ctx context.Context, sessionID string) (model.Payment, error) {
	pay, err := scanPayment(p.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE stripe_session_id = $1
	`, sessionID))
	if err != nil {
		return model.Payment{}, asNotFound(err, model.ErrPaymentNotFound)
	}
	return pay, nil
}

func (p *Postgres) InsertPayment(ctx context.Context, pay model.Payment) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO payments
			(id, client_id, booking_id, date, amount, method, status, due_date,
			 notes, stripe_session_id, paid_at, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12)
	`, pay.ID, pay.ClientID, pay.BookingID, pay.Date, pay.Amount, pay.Method, pay.Status,
		pay.DueDate, pay.Notes, pay.StripeSessionID, pay.PaidAt, pay.CreatedAt)
	return err
}

func (p *Postgres) UpdatePayment(ctx context.Context, pay model.Payment) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE payments
		SET client_id = $2,
			booking_id = NULLIF($3, ''),
			date = $4,
			amount = $5,
			method = $6,
			status = $7,
			due_date = $8,
			notes = $9,
			stripe_session_id = NULLIF($10, ''),
			paid_at = $11
		WHERE id = $1
	`, pay.ID, pay.ClientID, pay.BookingID, pay.Date, pay.Amount, pay.Method, pay.Status,
		pay.DueDate, pay.Notes, pay.StripeSessionID, pay.PaidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

func (p *Postgres) DeletePayment(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (model.Payment, error) {
	var pay model.Payment
	err := row.Scan(
		&pay.ID,
		&pay.ClientID,
		&pay.BookingID,
		&pay.Date,
		&pay.Amount,
		&pay.Method,
		&pay.Status,
		&pay.DueDate,
		&pay.Notes,
		&pay.StripeSessionID,
		&pay.PaidAt,
		&pay.CreatedAt,
	)
	if err != nil {
		return model.Payment{}, err
	}
	return pay, nil
}
