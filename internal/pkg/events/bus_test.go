package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestSubscribeAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var got []Event
	unsubscribe := bus.Subscribe(func(ev Event) { got = append(got, ev) })

	id := uuid.New()
	bus.Publish(SignedIn, id)
	if len(got) != 1 || got[0].Type != SignedIn || got[0].UserID != id {
		t.Fatalf("unexpected events %+v", got)
	}

	unsubscribe()
	unsubscribe()
	bus.Publish(SignedOut, id)
	if len(got) != 1 {
		t.Fatalf("expected no delivery after unsubscribe, got %d events", len(got))
	}
}

func TestPanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(func(Event) { panic("boom") })
	delivered := false
	bus.Subscribe(func(Event) { delivered = true })

	bus.Publish(ProfileUpdated, uuid.New())
	if !delivered {
		t.Fatal("second subscriber should still receive the event")
	}
}

func TestNilBusPublishIsNoop(t *testing.T) {
	var bus *Bus
	bus.Publish(SignedIn, uuid.New())
}
