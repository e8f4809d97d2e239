package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recordPrefix = "idem:"
	lockPrefix   = "idem:lock:"
)

// RedisStore keeps records in Redis with a TTL.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.redis.Get(ctx, recordPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("idempotency get: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	exists, err := s.redis.Exists(ctx, recordPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency exists: %w", err)
	}
	if exists > 0 {
		return false, nil
	}

	ok, err := s.redis.SetNX(ctx, lockPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, recordPrefix+key, data, ttl)
	pipe.Del(ctx, lockPrefix+key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.redis.Del(ctx, lockPrefix+key).Err()
}
