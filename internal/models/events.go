package models

import "github.com/google/uuid"

// Event is a UI-facing event produced by the adapter from raw runtime
// events. The set is closed: state folding type-switches over it.
type Event interface {
	event()
}

// Identity events
type FriendRequestReceivedEvent struct{ From Identity }
type FriendRequestSentEvent struct{ To Identity }
type FriendRequestCancelledEvent struct{ Peer Identity }
type FriendAddedEvent struct{ Peer Identity }
type FriendRemovedEvent struct{ Peer Identity }
type IdentityOnlineEvent struct{ Peer Identity }
type IdentityOfflineEvent struct{ Peer Identity }
type IdentityUpdatedEvent struct{ Peer Identity }
type BlockedEvent struct{ Peer Identity }
type UnblockedEvent struct{ Peer Identity }

// Conversation events
type ConversationCreatedEvent struct {
	Conversation Conversation
	Identities   []Identity
	Messages     []Message
	HasMore      bool
}
type ConversationDeletedEvent struct{ ID uuid.UUID }
type ConversationNameUpdatedEvent struct {
	ID   uuid.UUID
	Name string
}
type RecipientAddedEvent struct {
	ConversationID uuid.UUID
	Peer           Identity
}
type RecipientRemovedEvent struct {
	ConversationID uuid.UUID
	PeerDID        string
}

// Message events
type MessageReceivedEvent struct {
	ConversationID uuid.UUID
	Message        Message
}
type MessageSentEvent struct {
	ConversationID uuid.UUID
	Message        Message
}
type MessageEditedEvent struct {
	ConversationID uuid.UUID
	Message        Message
}
type MessageDeletedEvent struct {
	ConversationID uuid.UUID
	MessageID      uuid.UUID
}
type MessagePinnedEvent struct {
	ConversationID uuid.UUID
	Message        Message
}
type MessageUnpinnedEvent struct {
	ConversationID uuid.UUID
	Message        Message
}
type ReactionAddedEvent struct {
	ConversationID uuid.UUID
	MessageID      uuid.UUID
	Emoji          string
	By             string
}
type ReactionRemovedEvent struct {
	ConversationID uuid.UUID
	MessageID      uuid.UUID
	Emoji          string
	By             string
}
type TypingIndicatorEvent struct {
	ConversationID uuid.UUID
	Participant    string
}
type AttachmentProgressEvent struct {
	ConversationID uuid.UUID
	PendingID      uuid.UUID
	Name           string
	Progress       int // percent
}

// Call signaling events
type CallOfferedEvent struct {
	CallID         uuid.UUID
	ConversationID uuid.UUID
	Participants   []string
}
type CallAnsweredEvent struct {
	CallID uuid.UUID
	Peer   string
}
type CallEndedEvent struct{ CallID uuid.UUID }
type ParticipantJoinedEvent struct {
	CallID uuid.UUID
	Peer   string
}
type ParticipantLeftEvent struct {
	CallID uuid.UUID
	Peer   string
}
type ParticipantSpeakingEvent struct {
	CallID uuid.UUID
	Peer   string
}

func (FriendRequestReceivedEvent) event() {}
func (FriendRequestSentEvent) event() {}
func (FriendRequestCancelledEvent) event() {}
func (FriendAddedEvent) event() {}
func (FriendRemovedEvent) event() {}
func (IdentityOnlineEvent) event() {}
func (IdentityOfflineEvent) event() {}
func (IdentityUpdatedEvent) event() {}
func (BlockedEvent) event() {}
func (UnblockedEvent) event() {}
func (ConversationCreatedEvent) event() {}
func (ConversationDeletedEvent) event() {}
func (ConversationNameUpdatedEvent) event() {}
func (RecipientAddedEvent) event() {}
func (RecipientRemovedEvent) event() {}
func (MessageReceivedEvent) event() {}
func (MessageSentEvent) event() {}
func (MessageEditedEvent) event() {}
func (MessageDeletedEvent) event() {}
func (MessagePinnedEvent) event() {}
func (MessageUnpinnedEvent) event() {}
func (ReactionAddedEvent) event() {}
func (ReactionRemovedEvent) event() {}
func (TypingIndicatorEvent) event() {}
func (AttachmentProgressEvent) event() {}
func (CallOfferedEvent) event() {}
func (CallAnsweredEvent) event() {}
func (CallEndedEvent) event() {}
func (ParticipantJoinedEvent) event() {}
func (ParticipantLeftEvent) event() {}
func (ParticipantSpeakingEvent) event() {}
