package models

import (
	"time"

	"github.com/google/uuid"
)

type ConversationKind string

const (
	ConversationDirect ConversationKind = "direct"
	ConversationGroup  ConversationKind = "group"
)

type Message struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Content        string     `json:"content"`
	InReplyTo      *uuid.UUID `json:"in_reply_to,omitempty"`
	// first line of the replied-to message, fetched so the UI can render the
	// quote without another round-trip
	ReplyPreview string       `json:"reply_preview,omitempty"`
	SentAt       time.Time    `json:"sent_at"`
	Pinned       bool         `json:"pinned"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	Reactions    []Reaction   `json:"reactions,omitempty"`
}

type Reaction struct {
	Emoji string   `json:"emoji"`
	Users []string `json:"users"`
}

type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// Conversation is the runtime's description of a chat; the state layer wraps
// it with window/unread bookkeeping.
type Conversation struct {
	ID           uuid.UUID        `json:"id"`
	Kind         ConversationKind `json:"kind"`
	Name         string           `json:"name,omitempty"` // group chats only
	Creator      string           `json:"creator,omitempty"`
	Participants []string         `json:"participants"`
}

type PendingState string

const (
	PendingSending PendingState = "sending"
	PendingFailed  PendingState = "failed"
)

// PendingMessage is an optimistic outbound message. The ID is the
// client-generated provisional id used to reconcile against the confirmed
// message once the runtime responds.
type PendingMessage struct {
	ID          uuid.UUID
	Message     Message
	State       PendingState
	Attachments []string // local paths still to upload
	// per-attachment upload progress, keyed by file name
	AttachmentProgress map[string]int
}

func NewPendingMessage(conversationID uuid.UUID, sender, content string, attachments []string) PendingMessage {
	id := uuid.New()
	return PendingMessage{
		ID: id,
		Message: Message{
			ID:             id,
			ConversationID: conversationID,
			SenderID:       sender,
			Content:        content,
			SentAt:         time.Now(),
		},
		State:              PendingSending,
		Attachments:        attachments,
		AttachmentProgress: make(map[string]int),
	}
}
