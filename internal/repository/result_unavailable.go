package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
)

// unavailableResult backs the service when no store could be configured.
type unavailableResult struct{}

func NewUnavailableResultRepository() ResultRepository {
	return unavailableResult{}
}

func (unavailableResult) Save(context.Context, *entity.Result) error {
	return apperror.ErrStorageUnavailable
}

func (unavailableResult) Recent(context.Context, int) ([]*entity.Result, error) {
	return nil, apperror.ErrStorageUnavailable
}

func (unavailableResult) Ping(context.Context) error {
	return apperror.ErrStorageUnavailable
}
