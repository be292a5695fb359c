package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/auction-billing/internal/domain"
	customError "github.com/segyhp/auction-billing/pkg/errors"

	"github.com/redis/go-redis/v9"
)

const statusKeyPrefix = "obligation:status"

type redisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache stores status snapshots in redis for ttl
func NewStatusCache(client *redis.Client, ttl time.Duration) StatusCache {
	return &redisStatusCache{client: client, ttl: ttl}
}

// statusKey scopes a snapshot to the day it was computed for, since interest moves with the date
func statusKey(reference string, referenceDate string) string {
	return fmt.Sprintf("%s:%s:%s", statusKeyPrefix, reference, referenceDate)
}

func (c *redisStatusCache) Get(ctx context.Context, reference string, referenceDate string) (*domain.StatusResponse, bool, error) {
	raw, err := c.client.Get(ctx, statusKey(reference, referenceDate)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, customError.WrapCacheError(err)
	}

	var status domain.StatusResponse
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, false, customError.WrapCacheError(err)
	}
	return &status, true, nil
}

func (c *redisStatusCache) Set(ctx context.Context, status *domain.StatusResponse) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return customError.WrapCacheError(err)
	}
	if err := c.client.Set(ctx, statusKey(status.Reference, status.ReferenceDate), raw, c.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

func (c *redisStatusCache) Delete(ctx context.Context, reference string) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, statusKey(reference, "*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}
