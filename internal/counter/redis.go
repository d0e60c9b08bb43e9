package counter

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const availableUnitsKey = "available_units"

// RedisStore keeps the counter in Redis under a single key. INCRBY gives
// the atomic per-key adjustment the engine needs.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: availableUnitsKey}
}

func (s *RedisStore) Get(ctx context.Context) (int64, bool, error) {
	value, err := s.client.Get(ctx, s.key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("counter get: %w", err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, value int64) error {
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("counter set: %w", err)
	}
	return nil
}

func (s *RedisStore) Add(ctx context.Context, delta int64) (int64, error) {
	value, err := s.client.IncrBy(ctx, s.key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("counter incrby: %w", err)
	}
	return value, nil
}
