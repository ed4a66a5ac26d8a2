package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/metrics"
)

// RecentLimit is the size of the recent results listing.
const RecentLimit = 10

type ResultService interface {
	SubmitResult(ctx context.Context, playerX, playerO, winner string) (*entity.Result, error)
	ListRecentResults(ctx context.Context) ([]*entity.Result, error)
	Ready(ctx context.Context) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
	Recent(ctx context.Context, limit int) ([]*entity.Result, error)
	Ping(ctx context.Context) error
}

type resultService struct {
	resultRepo resultRepo
	timeout    time.Duration
	now        func() time.Time
}

func NewResultService(resultRepo resultRepo, timeout time.Duration) ResultService {
	return &resultService{
		resultRepo: resultRepo,
		timeout:    timeout,
		now:        time.Now,
	}
}

// SubmitResult - stores a finished match with a server assigned id and date.
// The winner is stored exactly as given.
func (that *resultService) SubmitResult(ctx context.Context, playerX, playerO, winner string) (*entity.Result, error) {
	ctx, cancel := that.withTimeout(ctx)
	defer cancel()

	result := entity.NewResult(playerX, playerO, winner, that.now())

	err := that.resultRepo.Save(ctx, result)
	metrics.ResultsSubmitted.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, storageError("could not save result", err)
	}

	return result, nil
}

// ListRecentResults - returns up to RecentLimit results, newest first.
func (that *resultService) ListRecentResults(ctx context.Context) ([]*entity.Result, error) {
	ctx, cancel := that.withTimeout(ctx)
	defer cancel()

	results, err := that.resultRepo.Recent(ctx, RecentLimit)
	metrics.ResultsListed.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, storageError("could not list results", err)
	}

	if len(results) > RecentLimit {
		results = results[:RecentLimit]
	}

	return results, nil
}

func (that *resultService) Ready(ctx context.Context) error {
	ctx, cancel := that.withTimeout(ctx)
	defer cancel()

	if err := that.resultRepo.Ping(ctx); err != nil {
		return storageError("store is not ready", err)
	}

	return nil
}

func (that *resultService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if that.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, that.timeout)
}

func storageError(msg string, err error) error {
	if errors.Is(err, apperror.ErrStorage) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, apperror.ErrStorage, err)
}
