package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
)

const DefaultRecentLimit = 10

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	Recent(ctx context.Context, limit int) ([]*entity.Result, error)
	Ping(ctx context.Context) error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return limit
}
