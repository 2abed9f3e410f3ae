package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tablebooker/api/internal/domain"
)

// RedisCache stores JSON documents under plain keys and exposes sorted sets
// written by the aggregation worker.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, payload, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Version(ctx context.Context, key string) (int64, error) {
	v, err := c.Client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisCache) BumpVersion(ctx context.Context, key string) error {
	return c.Client.Incr(ctx, key).Err()
}

// TopMembers returns the highest scored members of a sorted set.
func (c *RedisCache) TopMembers(ctx context.Context, key string, limit int) ([]domain.ScoredMember, error) {
	result, err := c.Client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	members := make([]domain.ScoredMember, 0, len(result))
	for _, z := range result {
		members = append(members, domain.ScoredMember{Member: fmt.Sprint(z.Member), Score: z.Score})
	}
	return members, nil
}
