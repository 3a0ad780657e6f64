package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/redis/go-redis/v9"
)

const (
	scoreKeyPrefix   = "dash:scores:"  // dash:scores:{fingerprint}:{query_key}
	datasetSetPrefix = "dash:dataset:" // set of score keys per dataset: dash:dataset:{fingerprint}:keys
	defaultScoreTTL  = 30 * time.Minute
)

// ScoreCache stores aggregation results in Redis, namespaced by the
// fingerprint of the table they were computed from.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	if ttl <= 0 {
		ttl = defaultScoreTTL
	}
	return &ScoreCache{client: client, ttl: ttl}
}

// Get returns domain.ErrCacheMiss when nothing is stored for the key.
func (c *ScoreCache) Get(ctx context.Context, fingerprint, queryKey string) ([]domain.GroupScoreRow, error) {
	data, err := c.client.Get(ctx, c.scoreKey(fingerprint, queryKey)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}

	var rows []domain.GroupScoreRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	return rows, nil
}

func (c *ScoreCache) Put(ctx context.Context, fingerprint, queryKey string, rows []domain.GroupScoreRow) error {
	if rows == nil {
		rows = []domain.GroupScoreRow{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	key := c.scoreKey(fingerprint, queryKey)
	setKey := c.datasetSetKey(fingerprint)

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.SAdd(ctx, setKey, key)
	pipe.Expire(ctx, setKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store scores: %w", err)
	}
	return nil
}

// Purge drops every cached result computed from the given dataset.
func (c *ScoreCache) Purge(ctx context.Context, fingerprint string) error {
	setKey := c.datasetSetKey(fingerprint)
	keys, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list cached scores: %w", err)
	}

	pipe := c.client.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to purge scores: %w", err)
	}
	return nil
}

func (c *ScoreCache) scoreKey(fingerprint, queryKey string) string {
	return fmt.Sprintf("%s%s:%s", scoreKeyPrefix, fingerprint, queryKey)
}

func (c *ScoreCache) datasetSetKey(fingerprint string) string {
	return fmt.Sprintf("%s%s:keys", datasetSetPrefix, fingerprint)
}
