// Package storage implements the store.Store interface on Postgres via
// pgx. One file per aggregate; the reminder worker queries live in
// reminders.go.
package storage

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/climatize/climatize/libs/db"
	"github.com/climatize/climatize/services/rental-service/internal/store"
)

type Postgres struct {
	pool *db.Pool
}

var _ store.Store = (*Postgres)(nil)

func NewPostgres(pool *db.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// asNotFound maps pgx.ErrNoRows to the aggregate's sentinel so callers can
// keep using errors.Is against the model package.
func asNotFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}
