package adapter

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

const subscriberBuffer = 64

// Bus broadcasts UI-facing events to every subscriber. Publishing never
// blocks: a subscriber that stops draining loses events, not the publisher.
type Bus struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]chan models.Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uuid.UUID]chan models.Event)}
}

// Subscribe returns a buffered event channel and a func that unsubscribes
// and closes it.
func (b *Bus) Subscribe() (<-chan models.Event, func()) {
	id := uuid.New()
	ch := make(chan models.Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
}

// Publish delivers the event to every subscriber. Full subscribers are
// skipped.
func (b *Bus) Publish(ev models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("subscriber %s full, dropping %T", id, ev)
		}
	}
}

// Close unsubscribes everyone.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
