// Package runtime defines the boundary to the external P2P runtime that
// implements identity, messaging, storage and calling. The client core never
// talks to the network itself; it issues commands against these interfaces
// and consumes the raw event streams they expose.
package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

var (
	ErrBadPassphrase = errors.New("wrong passphrase")

	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("service not yet available")
	ErrAlreadySent  = errors.New("request already sent")
	ErrBlocked      = errors.New("peer is blocked")
	ErrNoSuchCall   = errors.New("no such call")
	ErrInvalidInput = errors.New("invalid input")
)

// Account manages the local identity and peer relationships.
type Account interface {
	CreateAccount(ctx context.Context, username, passphrase string) (models.Identity, error)
	RecoverAccount(ctx context.Context, seedPhrase string) (models.Identity, error)
	Login(ctx context.Context, passphrase string) (models.Identity, error)

	OwnIdentity(ctx context.Context) (models.Identity, error)
	Identity(ctx context.Context, did string) (models.Identity, error)
	IdentityPresence(ctx context.Context, did string) (models.Presence, error)
	IdentityPlatform(ctx context.Context, did string) (models.Platform, error)

	UpdateUsername(ctx context.Context, username string) error
	UpdateStatusMessage(ctx context.Context, status string) error
	UpdateProfilePicture(ctx context.Context, dataURI string) error
	UpdateBanner(ctx context.Context, dataURI string) error

	SendFriendRequest(ctx context.Context, did string) error
	AcceptRequest(ctx context.Context, did string) error
	DenyRequest(ctx context.Context, did string) error
	CloseRequest(ctx context.Context, did string) error
	RemoveFriend(ctx context.Context, did string) error
	Block(ctx context.Context, did string) error
	Unblock(ctx context.Context, did string) error

	ListFriends(ctx context.Context) ([]string, error)
	ListIncomingRequests(ctx context.Context) ([]string, error)
	ListOutgoingRequests(ctx context.Context) ([]string, error)
	BlockList(ctx context.Context) ([]string, error)

	Subscribe(ctx context.Context) (<-chan AccountEvent, error)
}

// MessageOptions selects a bounded page of a conversation's history.
// Zero-valued Before/After mean "most recent Limit messages".
type MessageOptions struct {
	Limit  int
	Before time.Time
	After  time.Time
}

// Messaging manages conversations and their messages.
type Messaging interface {
	CreateConversation(ctx context.Context, did string) (models.Conversation, error)
	CreateGroupConversation(ctx context.Context, name string, dids []string) (models.Conversation, error)
	Conversation(ctx context.Context, id uuid.UUID) (models.Conversation, error)
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) error

	Send(ctx context.Context, conversationID uuid.UUID, content string, attachments []string) (models.Message, error)
	Reply(ctx context.Context, conversationID, inReplyTo uuid.UUID, content string) (models.Message, error)
	Message(ctx context.Context, conversationID, messageID uuid.UUID) (models.Message, error)
	MessageCount(ctx context.Context, conversationID uuid.UUID) (int, error)
	Messages(ctx context.Context, conversationID uuid.UUID, opts MessageOptions) ([]models.Message, error)
	Pin(ctx context.Context, conversationID, messageID uuid.UUID, pinned bool) error
	React(ctx context.Context, conversationID, messageID uuid.UUID, emoji string, add bool) error
	SendTyping(ctx context.Context, conversationID uuid.UUID) error

	// Subscribe delivers conversation lifecycle events.
	Subscribe(ctx context.Context) (<-chan ConversationEvent, error)
	// ConversationStream delivers message events for one conversation.
	ConversationStream(ctx context.Context, conversationID uuid.UUID) (<-chan MessageEvent, error)
}

type FileInfo struct {
	Name      string
	Size      int64
	Directory bool
	Modified  time.Time
}

// Storage is the remote file store.
type Storage interface {
	CreateDirectory(ctx context.Context, path string) error
	List(ctx context.Context, path string) ([]FileInfo, error)
	Upload(ctx context.Context, localPath, remotePath string) error
	Download(ctx context.Context, remotePath, localPath string) error
	Rename(ctx context.Context, oldPath, newPath string) error
	Delete(ctx context.Context, path string) error
	TotalSize(ctx context.Context) (int64, error)
}

// Calling is the voice/video signaling service.
type Calling interface {
	Offer(ctx context.Context, conversationID uuid.UUID, participants []string) (uuid.UUID, error)
	Answer(ctx context.Context, callID uuid.UUID) error
	Leave(ctx context.Context, callID uuid.UUID) error
	MuteSelf(ctx context.Context) error
	UnmuteSelf(ctx context.Context) error
	AdjustVolume(ctx context.Context, did string, multiplier float32) error

	Subscribe(ctx context.Context) (<-chan CallEvent, error)
}
