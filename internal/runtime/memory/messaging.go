package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
	"github.com/user/uplink-client/internal/runtime"
)

// Messaging implements runtime.Messaging. Messages are stored per
// conversation in send order; streams fan events out per conversation.
type Messaging struct {
	self string

	mu            sync.RWMutex
	conversations map[uuid.UUID]models.Conversation
	messages      map[uuid.UUID][]models.Message
	convSubs      []chan runtime.ConversationEvent
	streams       map[uuid.UUID][]chan runtime.MessageEvent
}

func NewMessaging(selfDID string) *Messaging {
	return &Messaging{
		self:          selfDID,
		conversations: make(map[uuid.UUID]models.Conversation),
		messages:      make(map[uuid.UUID][]models.Message),
		streams:       make(map[uuid.UUID][]chan runtime.MessageEvent),
	}
}

func (m *Messaging) emitConv(ev runtime.ConversationEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.convSubs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (m *Messaging) emitMsg(ev runtime.MessageEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.streams[ev.ConversationID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (m *Messaging) CreateConversation(ctx context.Context, did string) (models.Conversation, error) {
	m.mu.Lock()
	for _, conv := range m.conversations {
		if conv.Kind != models.ConversationDirect {
			continue
		}
		for _, p := range conv.Participants {
			if p == did {
				m.mu.Unlock()
				return conv, nil
			}
		}
	}
	conv := models.Conversation{
		ID:           uuid.New(),
		Kind:         models.ConversationDirect,
		Creator:      m.self,
		Participants: []string{m.self, did},
	}
	m.conversations[conv.ID] = conv
	m.mu.Unlock()
	m.emitConv(runtime.ConversationEvent{Kind: runtime.ConversationCreated, ConversationID: conv.ID})
	return conv, nil
}

func (m *Messaging) CreateGroupConversation(ctx context.Context, name string, dids []string) (models.Conversation, error) {
	conv := models.Conversation{
		ID:           uuid.New(),
		Kind:         models.ConversationGroup,
		Name:         name,
		Creator:      m.self,
		Participants: append([]string{m.self}, dids...),
	}
	m.mu.Lock()
	m.conversations[conv.ID] = conv
	m.mu.Unlock()
	m.emitConv(runtime.ConversationEvent{Kind: runtime.ConversationCreated, ConversationID: conv.ID})
	return conv, nil
}

func (m *Messaging) Conversation(ctx context.Context, id uuid.UUID) (models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.conversations[id]
	if !ok {
		return models.Conversation{}, fmt.Errorf("conversation %s: %w", id, runtime.ErrNotFound)
	}
	return conv, nil
}

func (m *Messaging) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Conversation, 0, len(m.conversations))
	for _, conv := range m.conversations {
		out = append(out, conv)
	}
	return out, nil
}

func (m *Messaging) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	if _, ok := m.conversations[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("conversation %s: %w", id, runtime.ErrNotFound)
	}
	delete(m.conversations, id)
	delete(m.messages, id)
	m.mu.Unlock()
	m.emitConv(runtime.ConversationEvent{Kind: runtime.ConversationDeleted, ConversationID: id})
	return nil
}

func (m *Messaging) Send(ctx context.Context, conversationID uuid.UUID, content string, attachments []string) (models.Message, error) {
	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       m.self,
		Content:        content,
		SentAt:         time.Now(),
	}
	for _, path := range attachments {
		msg.Attachments = append(msg.Attachments, models.Attachment{Name: path})
	}
	if err := m.append(conversationID, msg); err != nil {
		return models.Message{}, err
	}
	m.emitMsg(runtime.MessageEvent{Kind: runtime.MessageSent, ConversationID: conversationID, MessageID: msg.ID, DID: m.self})
	return msg, nil
}

func (m *Messaging) Reply(ctx context.Context, conversationID, inReplyTo uuid.UUID, content string) (models.Message, error) {
	parent, err := m.Message(ctx, conversationID, inReplyTo)
	if err != nil {
		return models.Message{}, err
	}
	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       m.self,
		Content:        content,
		InReplyTo:      &parent.ID,
		ReplyPreview:   preview(parent.Content),
		SentAt:         time.Now(),
	}
	if err := m.append(conversationID, msg); err != nil {
		return models.Message{}, err
	}
	m.emitMsg(runtime.MessageEvent{Kind: runtime.MessageSent, ConversationID: conversationID, MessageID: msg.ID, DID: m.self})
	return msg, nil
}

// Deliver injects an inbound message from a peer. Test and demo setup only.
func (m *Messaging) Deliver(conversationID uuid.UUID, from, content string) (models.Message, error) {
	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       from,
		Content:        content,
		SentAt:         time.Now(),
	}
	if err := m.append(conversationID, msg); err != nil {
		return models.Message{}, err
	}
	m.emitMsg(runtime.MessageEvent{Kind: runtime.MessageReceived, ConversationID: conversationID, MessageID: msg.ID, DID: from})
	return msg, nil
}

// Typing injects a peer's typing indicator. Test and demo setup only.
func (m *Messaging) Typing(conversationID uuid.UUID, from string) {
	m.emitMsg(runtime.MessageEvent{Kind: runtime.TypingIndicator, ConversationID: conversationID, DID: from})
}

// UploadProgress reports attachment upload progress for an optimistic send.
// A networked runtime emits these while the upload runs; here they are
// injected by tests and demos.
func (m *Messaging) UploadProgress(conversationID, pendingID uuid.UUID, name string, percent int) {
	m.emitMsg(runtime.MessageEvent{
		Kind:           runtime.AttachmentProgress,
		ConversationID: conversationID,
		PendingID:      pendingID,
		Name:           name,
		Progress:       percent,
	})
}

func (m *Messaging) append(conversationID uuid.UUID, msg models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[conversationID]; !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, runtime.ErrNotFound)
	}
	m.messages[conversationID] = append(m.messages[conversationID], msg)
	return nil
}

func (m *Messaging) Message(ctx context.Context, conversationID, messageID uuid.UUID) (models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, msg := range m.messages[conversationID] {
		if msg.ID == messageID {
			return msg, nil
		}
	}
	return models.Message{}, fmt.Errorf("message %s: %w", messageID, runtime.ErrNotFound)
}

func (m *Messaging) MessageCount(ctx context.Context, conversationID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.conversations[conversationID]; !ok {
		return 0, fmt.Errorf("conversation %s: %w", conversationID, runtime.ErrNotFound)
	}
	return len(m.messages[conversationID]), nil
}

func (m *Messaging) Messages(ctx context.Context, conversationID uuid.UUID, opts runtime.MessageOptions) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.conversations[conversationID]; !ok {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, runtime.ErrNotFound)
	}
	msgs := make([]models.Message, 0, len(m.messages[conversationID]))
	for _, msg := range m.messages[conversationID] {
		if !opts.Before.IsZero() && !msg.SentAt.Before(opts.Before) {
			continue
		}
		if !opts.After.IsZero() && !msg.SentAt.After(opts.After) {
			continue
		}
		msgs = append(msgs, msg)
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].SentAt.Before(msgs[j].SentAt) })
	if opts.Limit > 0 && len(msgs) > opts.Limit {
		msgs = msgs[len(msgs)-opts.Limit:]
	}
	return msgs, nil
}

func (m *Messaging) Pin(ctx context.Context, conversationID, messageID uuid.UUID, pinned bool) error {
	m.mu.Lock()
	found := false
	for i, msg := range m.messages[conversationID] {
		if msg.ID == messageID {
			m.messages[conversationID][i].Pinned = pinned
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return fmt.Errorf("message %s: %w", messageID, runtime.ErrNotFound)
	}
	kind := runtime.MessagePinned
	if !pinned {
		kind = runtime.MessageUnpinned
	}
	m.emitMsg(runtime.MessageEvent{Kind: kind, ConversationID: conversationID, MessageID: messageID})
	return nil
}

func (m *Messaging) React(ctx context.Context, conversationID, messageID uuid.UUID, emoji string, add bool) error {
	if _, err := m.Message(ctx, conversationID, messageID); err != nil {
		return err
	}
	kind := runtime.ReactionAdded
	if !add {
		kind = runtime.ReactionRemoved
	}
	m.emitMsg(runtime.MessageEvent{Kind: kind, ConversationID: conversationID, MessageID: messageID, DID: m.self, Emoji: emoji})
	return nil
}

func (m *Messaging) SendTyping(ctx context.Context, conversationID uuid.UUID) error {
	m.mu.RLock()
	_, ok := m.conversations[conversationID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, runtime.ErrNotFound)
	}
	return nil
}

func (m *Messaging) Subscribe(ctx context.Context) (<-chan runtime.ConversationEvent, error) {
	ch := make(chan runtime.ConversationEvent, eventBuffer)
	m.mu.Lock()
	m.convSubs = append(m.convSubs, ch)
	m.mu.Unlock()
	return ch, nil
}

func (m *Messaging) ConversationStream(ctx context.Context, conversationID uuid.UUID) (<-chan runtime.MessageEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[conversationID]; !ok {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, runtime.ErrNotFound)
	}
	ch := make(chan runtime.MessageEvent, eventBuffer)
	m.streams[conversationID] = append(m.streams[conversationID], ch)
	return ch, nil
}

func preview(content string) string {
	for i, r := range content {
		if r == '\n' {
			return content[:i]
		}
	}
	if len(content) > 80 {
		return content[:80]
	}
	return content
}
