// Package events is an in-process publish/subscribe bus for session changes.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Type names a session-change event.
type Type string

const (
	Registered     Type = "registered"
	SignedIn       Type = "signed_in"
	SignedOut      Type = "signed_out"
	TokenRefreshed Type = "token_refreshed"
	ProfileUpdated Type = "profile_updated"
	// BalanceChanged follows every committed wallet mutation.
	BalanceChanged Type = "balance_changed"
)

// Event is delivered to every subscriber.
type Event struct {
	Type   Type      `json:"type"`
	UserID uuid.UUID `json:"user_id"`
	At     time.Time `json:"at"`
}

// Handler receives events synchronously on the publisher's goroutine.
type Handler func(Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is safe.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers an event of type t for userID to all current subscribers.
// A panicking subscriber is logged and does not stop delivery to the others.
func (b *Bus) Publish(t Type, userID uuid.UUID) {
	if b == nil {
		return
	}
	ev := Event{Type: t, UserID: userID, At: time.Now().UTC()}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, ev)
	}
}

func deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("event", string(ev.Type)).Msg("event subscriber panicked")
		}
	}()
	h(ev)
}
