package runtime

import "github.com/google/uuid"

// Raw event kinds as emitted by the runtime. The adapter converts these into
// UI-facing models.Event values; nothing above the adapter sees them.

type AccountEventKind string

const (
	FriendRequestReceived AccountEventKind = "friend_request_received"
	FriendRequestSent     AccountEventKind = "friend_request_sent"
	FriendRequestClosed   AccountEventKind = "friend_request_closed"
	FriendAdded           AccountEventKind = "friend_added"
	FriendRemoved         AccountEventKind = "friend_removed"
	IdentityOnline        AccountEventKind = "identity_online"
	IdentityOffline       AccountEventKind = "identity_offline"
	IdentityUpdated       AccountEventKind = "identity_updated"
	PeerBlocked           AccountEventKind = "blocked"
	PeerUnblocked         AccountEventKind = "unblocked"
)

type AccountEvent struct {
	Kind AccountEventKind
	DID  string
}

type ConversationEventKind string

const (
	ConversationCreated ConversationEventKind = "conversation_created"
	ConversationDeleted ConversationEventKind = "conversation_deleted"
)

type ConversationEvent struct {
	Kind           ConversationEventKind
	ConversationID uuid.UUID
}

type MessageEventKind string

const (
	MessageReceived     MessageEventKind = "message_received"
	MessageSent         MessageEventKind = "message_sent"
	MessageEdited       MessageEventKind = "message_edited"
	MessageDeleted      MessageEventKind = "message_deleted"
	MessagePinned       MessageEventKind = "message_pinned"
	MessageUnpinned     MessageEventKind = "message_unpinned"
	ReactionAdded       MessageEventKind = "reaction_added"
	ReactionRemoved     MessageEventKind = "reaction_removed"
	TypingIndicator     MessageEventKind = "typing_indicator"
	AttachmentProgress  MessageEventKind = "attachment_progress"
	RecipientAdded      MessageEventKind = "recipient_added"
	RecipientRemoved    MessageEventKind = "recipient_removed"
	ConversationRenamed MessageEventKind = "conversation_renamed"
)

type MessageEvent struct {
	Kind           MessageEventKind
	ConversationID uuid.UUID
	MessageID      uuid.UUID
	PendingID      uuid.UUID // provisional id of an optimistic send
	DID            string    // sender, typist or recipient depending on kind
	Emoji          string
	Name           string // conversation or attachment name
	Progress       int    // attachment upload percent
}

type CallEventKind string

const (
	CallOffered             CallEventKind = "call_offered"
	CallAnswered            CallEventKind = "call_answered"
	CallEnded               CallEventKind = "call_ended"
	CallParticipantJoined   CallEventKind = "participant_joined"
	CallParticipantLeft     CallEventKind = "participant_left"
	CallParticipantSpeaking CallEventKind = "participant_speaking"
)

type CallEvent struct {
	Kind           CallEventKind
	CallID         uuid.UUID
	ConversationID uuid.UUID
	DID            string
	Participants   []string
}
