package bridge

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/runtime"
)

// StreamManager owns one message stream per conversation and fans them all
// into a single channel for the adapter. Streams are added as conversations
// are hydrated and removed when they are deleted.
type StreamManager struct {
	ctx       context.Context
	messaging runtime.Messaging

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
	events  chan runtime.MessageEvent
}

func NewStreamManager(ctx context.Context, messaging runtime.Messaging) *StreamManager {
	return &StreamManager{
		ctx:       ctx,
		messaging: messaging,
		cancels:   make(map[uuid.UUID]context.CancelFunc),
		events:    make(chan runtime.MessageEvent, 64),
	}
}

// Events is the merged stream of message events across every conversation.
func (sm *StreamManager) Events() <-chan runtime.MessageEvent {
	return sm.events
}

// Add subscribes to a conversation's message stream. Adding a conversation
// that already has a stream is a no-op.
func (sm *StreamManager) Add(conversationID uuid.UUID) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.cancels[conversationID]; ok {
		return nil
	}
	ctx, cancel := context.WithCancel(sm.ctx)
	stream, err := sm.messaging.ConversationStream(ctx, conversationID)
	if err != nil {
		cancel()
		return err
	}
	sm.cancels[conversationID] = cancel
	go sm.forward(ctx, conversationID, stream)
	return nil
}

// Remove tears down a conversation's stream. Unknown ids are a no-op.
func (sm *StreamManager) Remove(conversationID uuid.UUID) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if cancel, ok := sm.cancels[conversationID]; ok {
		cancel()
		delete(sm.cancels, conversationID)
	}
}

func (sm *StreamManager) forward(ctx context.Context, conversationID uuid.UUID, stream <-chan runtime.MessageEvent) {
	for {
		select {
		case ev, ok := <-stream:
			if !ok {
				return
			}
			select {
			case sm.events <- ev:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close tears down every stream.
func (sm *StreamManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, cancel := range sm.cancels {
		cancel()
		delete(sm.cancels, id)
	}
	log.Printf("conversation streams closed")
}
