package state

import (
	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

// Action is a request to mutate the state. The set is closed; Store.Mutate
// type-switches over it. Actions carry data, never behavior.
type Action interface {
	action()
}

// Chat actions

// ChatWith makes the conversation active, pushes it to the top of the sidebar
// and clears its unread count, all in one step.
type ChatWith struct{ ID uuid.UUID }

// AddChat registers a conversation the runtime reported, without focusing it.
type AddChat struct {
	Conversation models.Conversation
	Identities   []models.Identity
	Messages     []models.Message
	HasMore      bool
}

type ClearActiveChat struct{}

type Favorite struct{ ID uuid.UUID }
type Unfavorite struct{ ID uuid.UUID }
type ToggleFavorite struct{ ID uuid.UUID }

// ReorderFavorites moves Source immediately before Target.
type ReorderFavorites struct{ Source, Target uuid.UUID }

type AddToSidebar struct{ ID uuid.UUID }
type RemoveFromSidebar struct{ ID uuid.UUID }

type ClearUnreads struct{ ID uuid.UUID }

type StartReplying struct {
	ID      uuid.UUID
	Message models.Message
}
type CancelReply struct{ ID uuid.UUID }

type SetChatDraft struct {
	ID    uuid.UUID
	Draft string
}
type ClearChatDraft struct{ ID uuid.UUID }

type SetChatAttachments struct {
	ID    uuid.UUID
	Paths []string
}
type ClearChatAttachments struct{ ID uuid.UUID }

// NewPendingMessage registers an optimistic outbound message.
type NewPendingMessage struct {
	ID      uuid.UUID
	Pending models.PendingMessage
}

// PendingMessageCompleted replaces the optimistic copy with the confirmed
// message the runtime returned.
type PendingMessageCompleted struct {
	ID        uuid.UUID
	PendingID uuid.UUID
	Message   models.Message
}

// PendingMessageFailed marks the optimistic copy as failed so the user can
// retry or discard it.
type PendingMessageFailed struct {
	ID        uuid.UUID
	PendingID uuid.UUID
}

// DismissPendingMessage discards a failed optimistic message. This is the
// only way a failed send leaves the window.
type DismissPendingMessage struct {
	ID        uuid.UUID
	PendingID uuid.UUID
}

// Friend actions

type NewIncomingRequest struct{ Identity models.Identity }
type NewOutgoingRequest struct{ Identity models.Identity }
type CancelRequest struct{ DID string }
type RequestAccepted struct{ Identity models.Identity }
type RemoveFriend struct{ DID string }

// Block severs the relationship: requests are dropped, the friendship ends
// and the direct chat leaves the sidebar and favorites.
type Block struct{ DID string }
type Unblock struct{ DID string }

// Identity actions

// SetIdentity replaces the local user's identity.
type SetIdentity struct{ Identity models.Identity }

// UpdateIdentity merges a peer's refreshed identity into the cache.
type UpdateIdentity struct{ Identity models.Identity }

// Call actions

type OfferCall struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Participants   []string
}
type AnswerCall struct{ ID uuid.UUID }
type RejectCall struct{ ID uuid.UUID }
type EndCall struct{}
type ToggleMute struct{}
type ToggleSilence struct{}
type SetCallPopout struct{ Window uuid.UUID }
type ClearCallPopout struct{}

// UI actions

type Navigate struct{ To Route }
type SidebarHidden struct{ Hidden bool }
type SetWindowFocused struct{ Focused bool }

type AddToastNotification struct {
	Title   string
	Content string
	Icon    string
}
type ResetToastTimer struct{ ID uuid.UUID }
type DismissToast struct{ ID uuid.UUID }

type SetUpdateAvailable struct{ Version string }
type DismissUpdate struct{}

// Settings actions

type SetFontScale struct{ Scale float32 }
type SetTheme struct{ Theme string }
type SetLanguage struct{ Language string }

func (ChatWith) action() {}
func (AddChat) action() {}
func (ClearActiveChat) action() {}
func (Favorite) action() {}
func (Unfavorite) action() {}
func (ToggleFavorite) action() {}
func (ReorderFavorites) action() {}
func (AddToSidebar) action() {}
func (RemoveFromSidebar) action() {}
func (ClearUnreads) action() {}
func (StartReplying) action() {}
func (CancelReply) action() {}
func (SetChatDraft) action() {}
func (ClearChatDraft) action() {}
func (SetChatAttachments) action() {}
func (ClearChatAttachments) action() {}
func (NewPendingMessage) action() {}
func (PendingMessageCompleted) action() {}
func (PendingMessageFailed) action() {}
func (DismissPendingMessage) action() {}
func (NewIncomingRequest) action() {}
func (NewOutgoingRequest) action() {}
func (CancelRequest) action() {}
func (RequestAccepted) action() {}
func (RemoveFriend) action() {}
func (Block) action() {}
func (Unblock) action() {}
func (SetIdentity) action() {}
func (UpdateIdentity) action() {}
func (OfferCall) action() {}
func (AnswerCall) action() {}
func (RejectCall) action() {}
func (EndCall) action() {}
func (ToggleMute) action() {}
func (ToggleSilence) action() {}
func (SetCallPopout) action() {}
func (ClearCallPopout) action() {}
func (Navigate) action() {}
func (SidebarHidden) action() {}
func (SetWindowFocused) action() {}
func (AddToastNotification) action() {}
func (ResetToastTimer) action() {}
func (DismissToast) action() {}
func (SetUpdateAvailable) action() {}
func (DismissUpdate) action() {}
func (SetFontScale) action() {}
func (SetTheme) action() {}
func (SetLanguage) action() {}
