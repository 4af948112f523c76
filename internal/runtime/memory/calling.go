package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/runtime"
)

// Calling implements runtime.Calling. Signaling stays in-process; the volume
// multiplier and mute state are tracked so the flows round-trip.
type Calling struct {
	self string

	mu      sync.RWMutex
	calls   map[uuid.UUID]runtime.CallEvent
	muted   bool
	volumes map[string]float32
	subs    []chan runtime.CallEvent
}

func NewCalling(selfDID string) *Calling {
	return &Calling{
		self:    selfDID,
		calls:   make(map[uuid.UUID]runtime.CallEvent),
		volumes: make(map[string]float32),
	}
}

func (c *Calling) emit(ev runtime.CallEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// InjectEvent emits a raw call event as if signaled by a peer, recording
// offers so they can be answered. Test and demo setup only.
func (c *Calling) InjectEvent(ev runtime.CallEvent) {
	if ev.Kind == runtime.CallOffered {
		c.mu.Lock()
		c.calls[ev.CallID] = ev
		c.mu.Unlock()
	}
	c.emit(ev)
}

func (c *Calling) Offer(ctx context.Context, conversationID uuid.UUID, participants []string) (uuid.UUID, error) {
	id := uuid.New()
	ev := runtime.CallEvent{
		Kind:           runtime.CallOffered,
		CallID:         id,
		ConversationID: conversationID,
		DID:            c.self,
		Participants:   participants,
	}
	c.mu.Lock()
	c.calls[id] = ev
	c.mu.Unlock()
	return id, nil
}

func (c *Calling) Answer(ctx context.Context, callID uuid.UUID) error {
	c.mu.RLock()
	_, ok := c.calls[callID]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("answer %s: %w", callID, runtime.ErrNoSuchCall)
	}
	c.emit(runtime.CallEvent{Kind: runtime.CallAnswered, CallID: callID, DID: c.self})
	return nil
}

func (c *Calling) Leave(ctx context.Context, callID uuid.UUID) error {
	c.mu.Lock()
	_, ok := c.calls[callID]
	delete(c.calls, callID)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("leave %s: %w", callID, runtime.ErrNoSuchCall)
	}
	c.emit(runtime.CallEvent{Kind: runtime.CallEnded, CallID: callID, DID: c.self})
	return nil
}

func (c *Calling) MuteSelf(ctx context.Context) error {
	c.mu.Lock()
	c.muted = true
	c.mu.Unlock()
	return nil
}

func (c *Calling) UnmuteSelf(ctx context.Context) error {
	c.mu.Lock()
	c.muted = false
	c.mu.Unlock()
	return nil
}

func (c *Calling) AdjustVolume(ctx context.Context, did string, multiplier float32) error {
	c.mu.Lock()
	c.volumes[did] = multiplier
	c.mu.Unlock()
	return nil
}

func (c *Calling) Subscribe(ctx context.Context) (<-chan runtime.CallEvent, error) {
	ch := make(chan runtime.CallEvent, eventBuffer)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch, nil
}
