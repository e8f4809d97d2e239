package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/pkg/events"
)

// ProfileReader loads profiles from the database.
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// Profiles loads session profiles through a short-lived Redis cache.
// Without Redis every load goes to the database.
type Profiles struct {
	repo  ProfileReader
	redis *redis.Client
	ttl   time.Duration
}

func NewProfiles(repo ProfileReader, client *redis.Client, ttl time.Duration) *Profiles {
	return &Profiles{repo: repo, redis: client, ttl: ttl}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("session:profile:%s", id)
}

// Load returns the profile for id, or nil when it does not exist.
func (p *Profiles) Load(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	if p.redis != nil {
		data, err := p.redis.Get(ctx, cacheKey(id)).Bytes()
		if err == nil {
			var cached profile.Profile
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("session cache read failed")
		}
	}

	pr, err := p.repo.GetByID(ctx, id)
	if err != nil || pr == nil {
		return pr, err
	}

	if p.redis != nil {
		if data, err := json.Marshal(pr); err == nil {
			if err := p.redis.Set(ctx, cacheKey(id), data, p.ttl).Err(); err != nil {
				log.Warn().Err(err).Msg("session cache write failed")
			}
		}
	}
	return pr, nil
}

// Invalidate drops the cached profile for id.
func (p *Profiles) Invalidate(ctx context.Context, id uuid.UUID) {
	if p.redis == nil {
		return
	}
	if err := p.redis.Del(ctx, cacheKey(id)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", id.String()).Msg("session cache invalidate failed")
	}
}

// OnEvent invalidates the cache on every session change. Subscribe it to the
// auth event bus.
func (p *Profiles) OnEvent(e events.Event) {
	p.Invalidate(context.Background(), e.UserID)
}
