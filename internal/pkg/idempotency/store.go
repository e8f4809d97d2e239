// Package idempotency stores the first response of a keyed request so that
// client retries replay it instead of repeating the side effect.
package idempotency

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no completed response is stored for a key.
var ErrNotFound = errors.New("idempotency record not found")

// Record is a stored HTTP response.
type Record struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists idempotency records.
//
// Reserve marks a key as in flight and reports false when the key is already
// reserved or completed. Save replaces the reservation with the final record.
// Release drops a reservation that never completed.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Save(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
