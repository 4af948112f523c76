package bridge

import (
	"time"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

// Command is one unit of work for the runtime worker. Every command embeds a
// one-shot response channel; the worker delivers exactly one value on it, or
// the bridge closes it when the command is dropped.
type Command interface {
	cancel()
}

// Rsp is the one-shot response side of a command. Buffered so the worker
// never blocks on a caller that gave up waiting.
type Rsp[T any] struct {
	C chan T
}

func NewRsp[T any]() Rsp[T] { return Rsp[T]{C: make(chan T, 1)} }

func (r Rsp[T]) cancel()     { close(r.C) }
func (r Rsp[T]) deliver(v T) { r.C <- v }

// Response payloads

type IdentityRsp struct {
	Identity models.Identity
	Err      error
}

type IdentitiesRsp struct {
	Identities []models.Identity
	Err        error
}

// RequestsRsp carries both directions of open friend requests.
type RequestsRsp struct {
	Incoming []models.Identity
	Outgoing []models.Identity
	Err      error
}

// ChatRsp is a fully hydrated conversation: the conversation itself, the
// identities of its participants and the most recent page of history.
type ChatRsp struct {
	Conversation models.Conversation
	Identities   []models.Identity
	Messages     []models.Message
	HasMore      bool
	Err          error
}

type ChatsRsp struct {
	Chats []ChatRsp
	Err   error
}

type MessagesRsp struct {
	Messages []models.Message
	HasMore  bool
	Err      error
}

type MessageRsp struct {
	Message models.Message
	Err     error
}

type FilesRsp struct {
	Files []FileEntry
	Err   error
}

type FileEntry struct {
	Name      string
	Size      int64
	Directory bool
}

type StorageSizeRsp struct {
	Size int64
	Err  error
}

type CallRsp struct {
	CallID uuid.UUID
	Err    error
}

// Account commands

type CreateAccount struct {
	Username   string `validate:"required,min=4,max=32"`
	Passphrase string `validate:"required,min=8"`
	Rsp[IdentityRsp]
}

type RecoverAccount struct {
	SeedPhrase string `validate:"required"`
	Rsp[IdentityRsp]
}

type Login struct {
	Passphrase string `validate:"required"`
	Rsp[IdentityRsp]
}

type FetchOwnIdentity struct {
	Rsp[IdentityRsp]
}

type FetchIdentities struct {
	DIDs []string `validate:"required,min=1,dive,required"`
	Rsp[IdentitiesRsp]
}

// UpdateProfile changes the local username and/or status message. Empty
// fields are left untouched.
type UpdateProfile struct {
	Username      string `validate:"omitempty,min=4,max=32"`
	StatusMessage string `validate:"max=128"`
	Rsp[IdentityRsp]
}

type UpdateProfilePicture struct {
	DataURI string `validate:"required"`
	Rsp[IdentityRsp]
}

type UpdateBanner struct {
	DataURI string `validate:"required"`
	Rsp[IdentityRsp]
}

type RequestFriend struct {
	DID string `validate:"required"`
	Rsp[error]
}

type AcceptRequest struct {
	DID string `validate:"required"`
	Rsp[error]
}

type DenyRequest struct {
	DID string `validate:"required"`
	Rsp[error]
}

type CancelRequest struct {
	DID string `validate:"required"`
	Rsp[error]
}

type RemoveFriend struct {
	DID string `validate:"required"`
	Rsp[error]
}

type BlockPeer struct {
	DID string `validate:"required"`
	Rsp[error]
}

type UnblockPeer struct {
	DID string `validate:"required"`
	Rsp[error]
}

type FetchFriends struct {
	Rsp[IdentitiesRsp]
}

type FetchBlockList struct {
	Rsp[IdentitiesRsp]
}

type FetchRequests struct {
	Rsp[RequestsRsp]
}

// Messaging commands

type CreateConversation struct {
	DID string `validate:"required"`
	Rsp[ChatRsp]
}

type CreateGroupConversation struct {
	Name string   `validate:"required,max=64"`
	DIDs []string `validate:"required,min=1,dive,required"`
	Rsp[ChatRsp]
}

type FetchConversations struct {
	Rsp[ChatsRsp]
}

type DeleteConversation struct {
	ConversationID uuid.UUID `validate:"required"`
	Rsp[error]
}

// FetchMessages loads a page of history older than Before.
type FetchMessages struct {
	ConversationID uuid.UUID `validate:"required"`
	Before         time.Time
	Limit          int `validate:"min=1,max=100"`
	Rsp[MessagesRsp]
}

// SendMessage sends the message optimistically registered under PendingID.
type SendMessage struct {
	ConversationID uuid.UUID `validate:"required"`
	PendingID      uuid.UUID `validate:"required"`
	Content        string
	Attachments    []string
	Rsp[MessageRsp]
}

type ReplyToMessage struct {
	ConversationID uuid.UUID `validate:"required"`
	InReplyTo      uuid.UUID `validate:"required"`
	PendingID      uuid.UUID `validate:"required"`
	Content        string    `validate:"required"`
	Rsp[MessageRsp]
}

type PinMessage struct {
	ConversationID uuid.UUID `validate:"required"`
	MessageID      uuid.UUID `validate:"required"`
	Pinned         bool
	Rsp[error]
}

type ReactToMessage struct {
	ConversationID uuid.UUID `validate:"required"`
	MessageID      uuid.UUID `validate:"required"`
	Emoji          string    `validate:"required"`
	Add            bool
	Rsp[error]
}

type SendTyping struct {
	ConversationID uuid.UUID `validate:"required"`
	Rsp[error]
}

// Storage commands

type CreateDirectory struct {
	Path string `validate:"required"`
	Rsp[error]
}

type ListDirectory struct {
	Path string
	Rsp[FilesRsp]
}

type UploadFile struct {
	LocalPath  string `validate:"required"`
	RemotePath string `validate:"required"`
	Rsp[error]
}

type DownloadFile struct {
	RemotePath string `validate:"required"`
	LocalPath  string `validate:"required"`
	Rsp[error]
}

type RenameItem struct {
	OldPath string `validate:"required"`
	NewPath string `validate:"required"`
	Rsp[error]
}

type DeleteItem struct {
	Path string `validate:"required"`
	Rsp[error]
}

type FetchStorageSize struct {
	Rsp[StorageSizeRsp]
}

// Call commands

type OfferCall struct {
	ConversationID uuid.UUID `validate:"required"`
	Participants   []string  `validate:"required,min=1,dive,required"`
	Rsp[CallRsp]
}

type AnswerCall struct {
	CallID uuid.UUID `validate:"required"`
	Rsp[error]
}

type LeaveCall struct {
	CallID uuid.UUID `validate:"required"`
	Rsp[error]
}

type MuteSelf struct {
	Rsp[error]
}

type UnmuteSelf struct {
	Rsp[error]
}

type AdjustVolume struct {
	DID        string  `validate:"required"`
	Multiplier float32 `validate:"min=0,max=10"`
	Rsp[error]
}
