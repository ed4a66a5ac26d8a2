package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
)

type pgResult struct {
	pool *pgxpool.Pool
}

func NewPostgresResultRepository(pool *pgxpool.Pool) ResultRepository {
	return &pgResult{
		pool: pool,
	}
}

func (that *pgResult) Save(ctx context.Context, result *entity.Result) error {
	query := `INSERT INTO results (id, player_x, player_o, winner, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING date`

	err := that.pool.QueryRow(ctx, query,
		result.ID,
		result.PlayerX,
		result.PlayerO,
		result.Winner,
		result.Date,
	).Scan(&result.Date)
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	result.Date = result.Date.UTC()

	return nil
}

func (that *pgResult) Recent(ctx context.Context, limit int) ([]*entity.Result, error) {
	query := `SELECT id::text, player_x, player_o, winner, date
		FROM results
		ORDER BY date DESC, seq DESC
		LIMIT $1`

	rows, err := that.pool.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("can't select results: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Result, error) {
		var result entity.Result
		if err := row.Scan(&result.ID, &result.PlayerX, &result.PlayerO, &result.Winner, &result.Date); err != nil {
			return nil, err
		}

		result.Date = result.Date.UTC()

		return &result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't scan results: %w", err)
	}

	return results, nil
}

func (that *pgResult) Ping(ctx context.Context) error {
	if err := that.pool.Ping(ctx); err != nil {
		return fmt.Errorf("can't ping database: %w", err)
	}
	return nil
}
