package adapter

import (
	"context"
	"fmt"

	"github.com/user/uplink-client/internal/models"
	"github.com/user/uplink-client/internal/runtime"
	"github.com/user/uplink-client/internal/state"
)

// history page fetched when a conversation arrives by event
const eventPageSize = 50

// identity resolves a did, preferring a fresh fetch and falling back to the
// cached copy or a placeholder so conversion never fails on an unreachable
// peer.
func (a *Adapter) identity(ctx context.Context, did string) models.Identity {
	id, err := a.account.Identity(ctx, did)
	if err != nil {
		var cached models.Identity
		a.store.View(func(s *state.State) { cached = s.Identity(did) })
		return cached
	}
	if p, err := a.account.IdentityPresence(ctx, did); err == nil {
		id.Presence = p
	}
	if p, err := a.account.IdentityPlatform(ctx, did); err == nil {
		id.Platform = p
	}
	return id
}

func (a *Adapter) convertAccount(ctx context.Context, raw runtime.AccountEvent) (models.Event, error) {
	switch raw.Kind {
	case runtime.FriendRequestReceived:
		return models.FriendRequestReceivedEvent{From: a.identity(ctx, raw.DID)}, nil
	case runtime.FriendRequestSent:
		return models.FriendRequestSentEvent{To: a.identity(ctx, raw.DID)}, nil
	case runtime.FriendRequestClosed:
		return models.FriendRequestCancelledEvent{Peer: a.identity(ctx, raw.DID)}, nil
	case runtime.FriendAdded:
		return models.FriendAddedEvent{Peer: a.identity(ctx, raw.DID)}, nil
	case runtime.FriendRemoved:
		return models.FriendRemovedEvent{Peer: a.identity(ctx, raw.DID)}, nil
	case runtime.IdentityOnline:
		return models.IdentityOnlineEvent{Peer: a.identity(ctx, raw.DID)}, nil
	case runtime.IdentityOffline:
		return models.IdentityOfflineEvent{Peer: a.identity(ctx, raw.DID)}, nil
	case runtime.IdentityUpdated:
		return models.IdentityUpdatedEvent{Peer: a.identity(ctx, raw.DID)}, nil
	case runtime.PeerBlocked:
		return models.BlockedEvent{Peer: a.identity(ctx, raw.DID)}, nil
	case runtime.PeerUnblocked:
		return models.UnblockedEvent{Peer: a.identity(ctx, raw.DID)}, nil
	}
	return nil, fmt.Errorf("unknown account event %q", raw.Kind)
}

func (a *Adapter) convertConversation(ctx context.Context, raw runtime.ConversationEvent) (models.Event, error) {
	switch raw.Kind {
	case runtime.ConversationCreated:
		conv, err := a.messaging.Conversation(ctx, raw.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("fetch conversation %s: %w", raw.ConversationID, err)
		}
		total, err := a.messaging.MessageCount(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("count messages %s: %w", conv.ID, err)
		}
		msgs, err := a.messaging.Messages(ctx, conv.ID, runtime.MessageOptions{Limit: eventPageSize})
		if err != nil {
			return nil, fmt.Errorf("fetch messages %s: %w", conv.ID, err)
		}
		ids := make([]models.Identity, 0, len(conv.Participants))
		for _, did := range conv.Participants {
			ids = append(ids, a.identity(ctx, did))
		}
		if err := a.streams.Add(conv.ID); err != nil {
			return nil, fmt.Errorf("stream %s: %w", conv.ID, err)
		}
		return models.ConversationCreatedEvent{
			Conversation: conv,
			Identities:   ids,
			Messages:     msgs,
			HasMore:      total > len(msgs),
		}, nil
	case runtime.ConversationDeleted:
		a.streams.Remove(raw.ConversationID)
		return models.ConversationDeletedEvent{ID: raw.ConversationID}, nil
	}
	return nil, fmt.Errorf("unknown conversation event %q", raw.Kind)
}

func (a *Adapter) convertMessage(ctx context.Context, raw runtime.MessageEvent) (models.Event, error) {
	fetch := func() (models.Message, error) {
		m, err := a.messaging.Message(ctx, raw.ConversationID, raw.MessageID)
		if err != nil {
			return models.Message{}, fmt.Errorf("fetch message %s: %w", raw.MessageID, err)
		}
		return m, nil
	}

	switch raw.Kind {
	case runtime.MessageReceived:
		m, err := fetch()
		if err != nil {
			return nil, err
		}
		return models.MessageReceivedEvent{ConversationID: raw.ConversationID, Message: m}, nil
	case runtime.MessageSent:
		m, err := fetch()
		if err != nil {
			return nil, err
		}
		return models.MessageSentEvent{ConversationID: raw.ConversationID, Message: m}, nil
	case runtime.MessageEdited:
		m, err := fetch()
		if err != nil {
			return nil, err
		}
		return models.MessageEditedEvent{ConversationID: raw.ConversationID, Message: m}, nil
	case runtime.MessageDeleted:
		return models.MessageDeletedEvent{ConversationID: raw.ConversationID, MessageID: raw.MessageID}, nil
	case runtime.MessagePinned:
		m, err := fetch()
		if err != nil {
			return nil, err
		}
		return models.MessagePinnedEvent{ConversationID: raw.ConversationID, Message: m}, nil
	case runtime.MessageUnpinned:
		m, err := fetch()
		if err != nil {
			return nil, err
		}
		return models.MessageUnpinnedEvent{ConversationID: raw.ConversationID, Message: m}, nil
	case runtime.ReactionAdded:
		return models.ReactionAddedEvent{
			ConversationID: raw.ConversationID,
			MessageID:      raw.MessageID,
			Emoji:          raw.Emoji,
			By:             raw.DID,
		}, nil
	case runtime.ReactionRemoved:
		return models.ReactionRemovedEvent{
			ConversationID: raw.ConversationID,
			MessageID:      raw.MessageID,
			Emoji:          raw.Emoji,
			By:             raw.DID,
		}, nil
	case runtime.TypingIndicator:
		return models.TypingIndicatorEvent{ConversationID: raw.ConversationID, Participant: raw.DID}, nil
	case runtime.AttachmentProgress:
		return models.AttachmentProgressEvent{
			ConversationID: raw.ConversationID,
			PendingID:      raw.PendingID,
			Name:           raw.Name,
			Progress:       raw.Progress,
		}, nil
	case runtime.RecipientAdded:
		return models.RecipientAddedEvent{ConversationID: raw.ConversationID, Peer: a.identity(ctx, raw.DID)}, nil
	case runtime.RecipientRemoved:
		return models.RecipientRemovedEvent{ConversationID: raw.ConversationID, PeerDID: raw.DID}, nil
	case runtime.ConversationRenamed:
		return models.ConversationNameUpdatedEvent{ID: raw.ConversationID, Name: raw.Name}, nil
	}
	return nil, fmt.Errorf("unknown message event %q", raw.Kind)
}

func (a *Adapter) convertCall(raw runtime.CallEvent) models.Event {
	switch raw.Kind {
	case runtime.CallOffered:
		return models.CallOfferedEvent{
			CallID:         raw.CallID,
			ConversationID: raw.ConversationID,
			Participants:   raw.Participants,
		}
	case runtime.CallAnswered:
		return models.CallAnsweredEvent{CallID: raw.CallID, Peer: raw.DID}
	case runtime.CallEnded:
		return models.CallEndedEvent{CallID: raw.CallID}
	case runtime.CallParticipantJoined:
		return models.ParticipantJoinedEvent{CallID: raw.CallID, Peer: raw.DID}
	case runtime.CallParticipantLeft:
		return models.ParticipantLeftEvent{CallID: raw.CallID, Peer: raw.DID}
	case runtime.CallParticipantSpeaking:
		return models.ParticipantSpeakingEvent{CallID: raw.CallID, Peer: raw.DID}
	}
	return nil
}
