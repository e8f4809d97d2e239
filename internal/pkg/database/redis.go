package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisOptions tunes a client for one kind of use.
type RedisOptions struct {
	// Name is sent with CLIENT SETNAME so connections show up in CLIENT LIST.
	Name         string
	PoolSize     int
	MinIdleConns int
	// ReadTimeout of -1 disables the deadline, which a subscriber needs
	// while it waits on an idle channel.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

var (
	// CacheRedis serves the profile and catalog caches and idempotency keys.
	CacheRedis = RedisOptions{
		Name:         "boost-api-cache",
		PoolSize:     20,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	// PubSubRedis serves the realtime hub's subscription and publishes.
	PubSubRedis = RedisOptions{
		Name:         "boost-api-hub",
		PoolSize:     4,
		MinIdleConns: 1,
		ReadTimeout:  -1,
		WriteTimeout: 3 * time.Second,
	}
)

func (o RedisOptions) apply(opt *redis.Options) {
	opt.ClientName = o.Name
	opt.PoolSize = o.PoolSize
	opt.MinIdleConns = o.MinIdleConns
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = o.ReadTimeout
	opt.WriteTimeout = o.WriteTimeout
}

// NewRedis creates a Redis client tuned by opts.
// Returns nil if redisURL is empty (Redis is optional for development)
func NewRedis(redisURL string, opts RedisOptions) (*redis.Client, error) {
	if redisURL == "" {
		log.Warn().Str("client", opts.Name).Msg("Redis URL not configured, running without Redis")
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opts.apply(opt)

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}

	log.Info().Str("client", opts.Name).Msg("Connected to Redis")
	return client, nil
}

// CloseRedis closes the Redis connection
func CloseRedis(client *redis.Client) {
	if client != nil {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing Redis connection")
		} else {
			log.Info().Msg("Redis connection closed")
		}
	}
}
