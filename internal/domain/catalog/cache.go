package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const listCacheKey = "catalog:services"

// Cache holds the public service list.
type Cache interface {
	GetList(ctx context.Context) ([]*Service, bool)
	SetList(ctx context.Context, items []*Service)
	Invalidate(ctx context.Context)
}

type redisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache returns a Redis-backed cache, or a no-op cache when client is nil.
func NewCache(client *redis.Client, ttl time.Duration) Cache {
	if client == nil {
		return noopCache{}
	}
	return &redisCache{redis: client, ttl: ttl}
}

func (c *redisCache) GetList(ctx context.Context) ([]*Service, bool) {
	data, err := c.redis.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil, false
	}
	var items []*Service
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *redisCache) SetList(ctx context.Context, items []*Service) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, listCacheKey, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache write failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, listCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidate failed")
	}
}

type noopCache struct{}

func (noopCache) GetList(context.Context) ([]*Service, bool) { return nil, false }
func (noopCache) SetList(context.Context, []*Service)        {}
func (noopCache) Invalidate(context.Context)                 {}
