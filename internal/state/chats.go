package state

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

const (
	// remote typing indicators expire this long after the last signal
	typingIndicatorTimeout = 5 * time.Second
	// minimum interval between outbound typing signals per conversation
	typingSendInterval = 3 * time.Second
	// newest pinned messages kept per conversation
	maxPinnedMessages = 100
)

// Chat is one conversation plus the client-side bookkeeping the UI needs:
// the loaded message window, unread count, draft, reply target, optimistic
// outbound messages and typing indicators.
type Chat struct {
	Conversation models.Conversation `json:"conversation"`
	// loaded window of history, oldest first
	Messages []models.Message `json:"messages"`
	// whether older history exists beyond the loaded window
	HasMore bool   `json:"has_more"`
	Unreads uint32 `json:"unreads"`
	// message being replied to, nil when composing a plain message
	Replying *models.Message `json:"replying,omitempty"`
	Draft    string          `json:"draft,omitempty"`
	// local paths staged for the next send
	Attachments     []string                `json:"attachments,omitempty"`
	PendingOutgoing []models.PendingMessage `json:"-"`
	// newest-first, capped at maxPinnedMessages
	PinnedMessages []models.Message `json:"pinned_messages,omitempty"`
	// remote participants currently typing, keyed by did, value is the time
	// of their last indicator
	Typing map[string]time.Time `json:"-"`
	// when we last sent our own typing indicator for this chat
	typingLastSent time.Time
}

func NewChat(conv models.Conversation, messages []models.Message, hasMore bool) *Chat {
	return &Chat{
		Conversation: conv,
		Messages:     messages,
		HasMore:      hasMore,
		Typing:       make(map[string]time.Time),
	}
}

func (c *Chat) ID() uuid.UUID { return c.Conversation.ID }

// MergeMessages folds a fetched page into the loaded window, deduplicating by
// id and keeping chronological order. Fetches can overlap the window when
// pagination races with live delivery.
func (c *Chat) MergeMessages(page []models.Message) {
	if len(page) == 0 {
		return
	}
	seen := make(map[uuid.UUID]bool, len(c.Messages))
	for _, m := range c.Messages {
		seen[m.ID] = true
	}
	for _, m := range page {
		if !seen[m.ID] {
			c.Messages = append(c.Messages, m)
			seen[m.ID] = true
		}
	}
	sort.SliceStable(c.Messages, func(i, j int) bool {
		return c.Messages[i].SentAt.Before(c.Messages[j].SentAt)
	})
}

// AddMessage appends a freshly delivered message if it is not already in the
// window.
func (c *Chat) AddMessage(m models.Message) bool {
	for _, have := range c.Messages {
		if have.ID == m.ID {
			return false
		}
	}
	c.Messages = append(c.Messages, m)
	return true
}

func (c *Chat) UpdateMessage(m models.Message) {
	for i := range c.Messages {
		if c.Messages[i].ID == m.ID {
			c.Messages[i] = m
			return
		}
	}
}

func (c *Chat) RemoveMessage(id uuid.UUID) {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			return
		}
	}
}

func (c *Chat) Message(id uuid.UUID) (models.Message, bool) {
	for _, m := range c.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return models.Message{}, false
}

// AppendPending registers an optimistic outbound message and echoes it into
// the window so it renders immediately.
func (c *Chat) AppendPending(p models.PendingMessage) {
	c.PendingOutgoing = append(c.PendingOutgoing, p)
	c.Messages = append(c.Messages, p.Message)
}

// ReconcileSent replaces the optimistic copy with the confirmed message. The
// runtime echoes the provisional id back so the two can be matched. When the
// confirmed message already landed through the event stream, the provisional
// echo is dropped instead of rewritten.
func (c *Chat) ReconcileSent(provisionalID uuid.UUID, confirmed models.Message) bool {
	found := false
	for i := range c.PendingOutgoing {
		if c.PendingOutgoing[i].ID == provisionalID {
			c.PendingOutgoing = append(c.PendingOutgoing[:i], c.PendingOutgoing[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if confirmed.ID != provisionalID {
		if _, ok := c.Message(confirmed.ID); ok {
			c.RemoveMessage(provisionalID)
			return true
		}
	}
	for i := range c.Messages {
		if c.Messages[i].ID == provisionalID {
			c.Messages[i] = confirmed
			return true
		}
	}
	c.Messages = append(c.Messages, confirmed)
	return true
}

// MarkPendingFailed flags an optimistic message whose send errored. It stays
// visible so the user can retry or discard it.
func (c *Chat) MarkPendingFailed(provisionalID uuid.UUID) bool {
	for i := range c.PendingOutgoing {
		if c.PendingOutgoing[i].ID == provisionalID {
			c.PendingOutgoing[i].State = models.PendingFailed
			return true
		}
	}
	return false
}

// RemovePending discards an optimistic message and its echo in the window.
func (c *Chat) RemovePending(provisionalID uuid.UUID) {
	for i := range c.PendingOutgoing {
		if c.PendingOutgoing[i].ID == provisionalID {
			c.PendingOutgoing = append(c.PendingOutgoing[:i], c.PendingOutgoing[i+1:]...)
			break
		}
	}
	c.RemoveMessage(provisionalID)
}

func (c *Chat) UpdateAttachmentProgress(provisionalID uuid.UUID, name string, progress int) {
	for i := range c.PendingOutgoing {
		if c.PendingOutgoing[i].ID == provisionalID {
			c.PendingOutgoing[i].AttachmentProgress[name] = progress
			return
		}
	}
}

// PinMessage records a pin, newest first, evicting the oldest pin past the
// cap.
func (c *Chat) PinMessage(m models.Message) {
	for i := range c.PinnedMessages {
		if c.PinnedMessages[i].ID == m.ID {
			return
		}
	}
	c.PinnedMessages = append([]models.Message{m}, c.PinnedMessages...)
	if len(c.PinnedMessages) > maxPinnedMessages {
		c.PinnedMessages = c.PinnedMessages[:maxPinnedMessages]
	}
	if have, ok := c.Message(m.ID); ok {
		have.Pinned = true
		c.UpdateMessage(have)
	}
}

func (c *Chat) UnpinMessage(id uuid.UUID) {
	for i := range c.PinnedMessages {
		if c.PinnedMessages[i].ID == id {
			c.PinnedMessages = append(c.PinnedMessages[:i], c.PinnedMessages[i+1:]...)
			break
		}
	}
	if have, ok := c.Message(id); ok {
		have.Pinned = false
		c.UpdateMessage(have)
	}
}

// TypingIndicator records a remote participant's typing signal.
func (c *Chat) TypingIndicator(did string, now time.Time) {
	if c.Typing == nil {
		c.Typing = make(map[string]time.Time)
	}
	c.Typing[did] = now
}

// ExpireTyping drops typing entries older than the timeout. Returns whether
// any entry was removed.
func (c *Chat) ExpireTyping(now time.Time) bool {
	changed := false
	for did, last := range c.Typing {
		if now.Sub(last) > typingIndicatorTimeout {
			delete(c.Typing, did)
			changed = true
		}
	}
	return changed
}

// ShouldSendTyping rate-limits outbound typing signals. It returns true and
// arms the interval when enough time has passed since the last send.
func (c *Chat) ShouldSendTyping(now time.Time) bool {
	if now.Sub(c.typingLastSent) < typingSendInterval {
		return false
	}
	c.typingLastSent = now
	return true
}

// Chats holds every loaded conversation plus which one fills the main pane.
type Chats struct {
	All map[uuid.UUID]*Chat `json:"all"`
	// conversation shown in the main pane, Nil when none
	Active uuid.UUID `json:"active"`
	// sidebar ordering, most recently used first
	InSidebar []uuid.UUID `json:"in_sidebar"`
	Favorites []uuid.UUID `json:"favorites"`
	// slot an unfavorited chat held, so re-favoriting restores its place
	favoriteSlots map[uuid.UUID]int
}

func NewChats() Chats {
	return Chats{All: make(map[uuid.UUID]*Chat)}
}

func (cs *Chats) Get(id uuid.UUID) (*Chat, bool) {
	c, ok := cs.All[id]
	return c, ok
}

func (cs *Chats) ActiveChat() (*Chat, bool) {
	if cs.Active == uuid.Nil {
		return nil, false
	}
	return cs.Get(cs.Active)
}

// DirectChatWith finds the direct conversation whose remote side is did.
func (cs *Chats) DirectChatWith(did string) (*Chat, bool) {
	for _, c := range cs.All {
		if c.Conversation.Kind != models.ConversationDirect {
			continue
		}
		for _, p := range c.Conversation.Participants {
			if p == did {
				return c, true
			}
		}
	}
	return nil, false
}

func (cs *Chats) IsFavorite(id uuid.UUID) bool {
	for _, f := range cs.Favorites {
		if f == id {
			return true
		}
	}
	return false
}

// AddFavorite appends the chat, or restores its previous slot if it was just
// unfavorited, so toggling twice leaves the order untouched.
func (cs *Chats) AddFavorite(id uuid.UUID) {
	if cs.IsFavorite(id) {
		return
	}
	if slot, ok := cs.favoriteSlots[id]; ok {
		delete(cs.favoriteSlots, id)
		if slot > len(cs.Favorites) {
			slot = len(cs.Favorites)
		}
		cs.Favorites = append(cs.Favorites, uuid.Nil)
		copy(cs.Favorites[slot+1:], cs.Favorites[slot:])
		cs.Favorites[slot] = id
		return
	}
	cs.Favorites = append(cs.Favorites, id)
}

func (cs *Chats) RemoveFavorite(id uuid.UUID) {
	for i, f := range cs.Favorites {
		if f == id {
			cs.Favorites = append(cs.Favorites[:i], cs.Favorites[i+1:]...)
			if cs.favoriteSlots == nil {
				cs.favoriteSlots = make(map[uuid.UUID]int)
			}
			cs.favoriteSlots[id] = i
			return
		}
	}
}

// ReorderFavorites moves source so it sits immediately before target. Both
// directions behave the same way: remove source, reinsert at target's slot.
func (cs *Chats) ReorderFavorites(source, target uuid.UUID) {
	if source == target {
		return
	}
	srcIdx := -1
	for i, f := range cs.Favorites {
		if f == source {
			srcIdx = i
			break
		}
	}
	if srcIdx < 0 {
		return
	}
	cs.Favorites = append(cs.Favorites[:srcIdx], cs.Favorites[srcIdx+1:]...)
	tgtIdx := len(cs.Favorites)
	for i, f := range cs.Favorites {
		if f == target {
			tgtIdx = i
			break
		}
	}
	cs.Favorites = append(cs.Favorites, uuid.Nil)
	copy(cs.Favorites[tgtIdx+1:], cs.Favorites[tgtIdx:])
	cs.Favorites[tgtIdx] = source
}

func (cs *Chats) InSidebarIndex(id uuid.UUID) int {
	for i, s := range cs.InSidebar {
		if s == id {
			return i
		}
	}
	return -1
}

// AddToSidebar moves or inserts the chat at the top of the sidebar.
func (cs *Chats) AddToSidebar(id uuid.UUID) {
	if i := cs.InSidebarIndex(id); i >= 0 {
		cs.InSidebar = append(cs.InSidebar[:i], cs.InSidebar[i+1:]...)
	}
	cs.InSidebar = append([]uuid.UUID{id}, cs.InSidebar...)
}

func (cs *Chats) RemoveFromSidebar(id uuid.UUID) {
	if i := cs.InSidebarIndex(id); i >= 0 {
		cs.InSidebar = append(cs.InSidebar[:i], cs.InSidebar[i+1:]...)
	}
}

// Remove drops a conversation and every reference to it. Clears the active
// chat if it was showing.
func (cs *Chats) Remove(id uuid.UUID) {
	delete(cs.All, id)
	cs.RemoveFromSidebar(id)
	cs.RemoveFavorite(id)
	if cs.Active == id {
		cs.Active = uuid.Nil
	}
}

// ExpireTyping sweeps every chat's typing map. Returns whether any indicator
// expired.
func (cs *Chats) ExpireTyping(now time.Time) bool {
	changed := false
	for _, c := range cs.All {
		if c.ExpireTyping(now) {
			changed = true
		}
	}
	return changed
}
