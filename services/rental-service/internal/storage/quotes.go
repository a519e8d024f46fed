package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

const quoteColumns = `
	id, client_id, COALESCE(booking_id, ''), title, items, subtotal,
	discount, taxes, total, valid_until, status, created_at, updated_at`

func (p *Postgres) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (p *Postgres) GetQuote(ctx context.Context, id string) (model.Quote, error) {
	q, err := scanQuote(p.pool.QueryRow(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE id = $1
	`, id))
	if err != nil {
		return model.Quote{}, asNotFound(err, model.ErrQuoteNotFound)
	}
	return q, nil
}

func (p *Postgres) InsertQuote(ctx context.Context, q model.Quote) error {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("encode quote items: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO quotes
			(id, client_id, booking_id, title, items, subtotal, discount, taxes,
			 total, valid_until, status, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, q.ID, q.ClientID, q.BookingID, q.Title, items, q.Subtotal, q.Discount, q.Taxes,
		q.Total, q.ValidUntil, q.Status, q.CreatedAt, q.UpdatedAt)
	return err
}

func (p *Postgres) UpdateQuote(ctx context.Context, q model.Quote) error {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("encode quote items: %w", err)
	}
	tag, err := p.pool.Exec(ctx, `
		UPDATE quotes
		SET client_id = $2,
			booking_id = NULLIF($3, ''),
			title = $4,
			items = $5,
			subtotal = $6,
			discount = $7,
			taxes = $8,
			total = $9,
			valid_until = $10,
			status = $11,
			updated_at = $12
		WHERE id = $1
	`, q.ID, q.ClientID, q.BookingID, q.Title, items, q.Subtotal, q.Discount, q.Taxes,
		q.Total, q.ValidUntil, q.Status, q.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrQuoteNotFound
	}
	return nil
}

func (p *Postgres) DeleteQuote(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrQuoteNotFound
	}
	return nil
}

func scanQuote(row pgx.Row) (model.Quote, error) {
	var q model.Quote
	var items []byte
	err := row.Scan(
		&q.ID,
		&q.ClientID,
		&q.BookingID,
		&q.Title,
		&items,
		&q.Subtotal,
		&q.Discount,
		&q.Taxes,
		&q.Total,
		&q.ValidUntil,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return model.Quote{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &q.Items); err != nil {
			return model.Quote{}, fmt.Errorf("decode quote items: %w", err)
		}
	}
	return q, nil
}
