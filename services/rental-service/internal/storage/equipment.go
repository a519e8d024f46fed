package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/climatize/climatize/services/rental-service/internal/model"
)

const equipmentColumns = `
	id, code, model, name, status, airflow_m3h, motor_w, noise_db, tank_l,
	qty_total, qty_available, qty_reserved, qty_maintenance,
	last_maintenance, COALESCE(notes, ''), created_at`

func (p *Postgres) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+equipmentColumns+`
		FROM equipment
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (p *Postgres) GetEquipment(ctx context.Context, id string) (model.Equipment, error) {
	e, err := scanEquipment(p.pool.QueryRow(ctx, `
		SELECT `+equipmentColumns+`
		FROM equipment
		WHERE id = $1
	`, id))
	if err != nil {
		return model.Equipment{}, asNotFound(err, model.ErrEquipmentNotFound)
	}
	return e, nil
}

func (p *Postgres) InsertEquipment(ctx context.Context, e model.Equipment) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO equipment
			(id, code, model, name, status, airflow_m3h, motor_w, noise_db, tank_l,
			 qty_total, qty_available, qty_reserved, qty_maintenance,
			 last_maintenance, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, e.ID, e.Code, e.Model, e.Name, e.Status, e.AirflowM3h, e.MotorW, e.NoiseDb, e.TankL,
		e.Quantity.Total, e.Quantity.Available, e.Quantity.Reserved, e.Quantity.Maintenance,
		e.LastMaintenance, e.Notes, e.CreatedAt)
	return err
}

func (p *Postgres) UpdateEquipment(ctx context.Context, e model.Equipment) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE equipment
		SET code = $2,
			model = $3,
			name = $4,
			status = $5,
			airflow_m3h = $6,
			motor_w = $7,
			noise_db = $8,
			tank_l = $9,
			qty_total = $10,
			qty_available = $11,
			qty_reserved = $12,
			qty_maintenance = $13,
			last_maintenance = $14,
			notes = $15
		WHERE id = $1
	`, e.ID, e.Code, e.Model, e.Name, e.Status, e.AirflowM3h, e.MotorW, e.NoiseDb, e.TankL,
		e.Quantity.Total, e.Quantity.Available, e.Quantity.Reserved, e.Quantity.Maintenance,
		e.LastMaintenance, e.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEquipmentNotFound
	}
	return nil
}

func (p *Postgres) DeleteEquipment(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEquipmentNotFound
	}
	return nil
}

func (p *Postgres) SetEquipmentStatus(ctx context.Context, id string, status model.EquipmentStatus) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE equipment SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEquipmentNotFound
	}
	return nil
}

func scanEquipment(row pgx.Row) (model.Equipment, error) {
	var e model.Equipment
	err := row.Scan(
		&e.ID,
		&e.Code,
		&e.Model,
		&e.Name,
		&e.Status,
		&e.AirflowM3h,
		&e.MotorW,
		&e.NoiseDb,
		&e.TankL,
		&e.Quantity.Total,
		&e.Quantity.Available,
		&e.Quantity.Reserved,
		&e.Quantity.Maintenance,
		&e.LastMaintenance,
		&e.Notes,
		&e.CreatedAt,
	)
	if err != nil {
		return model.Equipment{}, err
	}
	return e, nil
}
