package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	seq      BIGSERIAL PRIMARY KEY,
	id       UUID NOT NULL UNIQUE,
	player_x TEXT NOT NULL,
	player_o TEXT NOT NULL,
	winner   TEXT NOT NULL,
	date     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS results_date_idx ON results (date DESC, seq DESC);`

// NewPostgres - opens a pool for the postgres:// URL and pings it.
func NewPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return pool, nil
}

// InitPostgres - creates the results table.
func InitPostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}
