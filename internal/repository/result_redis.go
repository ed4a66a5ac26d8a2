package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
)

const resultsKey = "results"

type redisResult struct {
	client *redis.Client
}

func NewRedisResultRepository(client *redis.Client) ResultRepository {
	return &redisResult{
		client: client,
	}
}

func (that *redisResult) Save(ctx context.Context, result *entity.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	if err = that.client.LPush(ctx, resultsKey, resultJSON).Err(); err != nil {
		return fmt.Errorf("failed to push result: %w", err)
	}

	return nil
}

func (that *redisResult) Recent(ctx context.Context, limit int) ([]*entity.Result, error) {
	limit = normalizeLimit(limit)

	response, err := that.client.LRange(ctx, resultsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	results := make([]*entity.Result, 0, len(response))
	for _, raw := range response {
		var result entity.Result
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	// the list is newest first by insertion, concurrent writers may interleave dates
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Date.After(results[j].Date)
	})

	return results, nil
}

func (that *redisResult) Ping(ctx context.Context) error {
	if err := that.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
