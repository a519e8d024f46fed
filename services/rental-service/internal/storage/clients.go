package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

const clientColumns = `
	id, name, COALESCE(company, ''), COALESCE(doc, ''), COALESCE(email, ''),
	COALESCE(phone, ''), COALESCE(whatsapp, ''), COALESCE(address, ''),
	COALESCE(city, ''), COALESCE(state, ''), safety_margin_hours, is_vip,
	status, tags, COALESCE(notes, ''), created_at`

func (p *Postgres) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (p *Postgres) GetClient(ctx context.Context, id string) (model.Client, error) {
	c, err := scanClient(p.pool.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1
	`, id))
	if err != nil {
		return model.Client{}, asNotFound(err, model.ErrClientNotFound)
	}
	return c, nil
}

func (p *Postgres) InsertClient(ctx context.Context, c model.Client) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO clients
			(id, name, company, doc, email, phone, whatsapp, address, city, state,
			 safety_margin_hours, is_vip, status, tags, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, c.ID, c.Name, c.Company, c.Doc, c.Email, c.Phone, c.WhatsApp, c.Address, c.City, c.State,
		c.SafetyMarginHours, c.IsVIP, c.Status, c.Tags, c.Notes, c.CreatedAt)
	return err
}

func (p *Postgres) UpdateClient(ctx context.Context, c model.Client) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE clients
		SET name = $2,
			company = $3,
			doc = $4,
			email = $5,
			phone = $6,
			whatsapp = $7,
			address = $8,
			city = $9,
			state = $10,
			safety_margin_hours = $11,
			is_vip = $12,
			status = $13,
			tags = $14,
			notes = $15
		WHERE id = $1
	`, c.ID, c.Name, c.Company, c.Doc, c.Email, c.Phone, c.WhatsApp, c.Address, c.City, c.State,
		c.SafetyMarginHours, c.IsVIP, c.Status, c.Tags, c.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClientNotFound
	}
	return nil
}

func (p *Postgres) DeleteClient(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClientNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (model.Client, error) {
	var c model.Client
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Company,
		&c.Doc,
		&c.Email,
		&c.Phone,
		&c.WhatsApp,
		&c.Address,
		&c.City,
		&c.State,
		&c.SafetyMarginHours,
		&c.IsVIP,
		&c.Status,
		&c.Tags,
		&c.Notes,
		&c.CreatedAt,
	)
	if err != nil {
		return model.Client{}, err
	}
	return c, nil
}
