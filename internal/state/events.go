package state

import (
	"log"
	"time"

	"github.com/user/uplink-client/internal/models"
)

// ProcessEvent folds a UI-facing event into the state, then notifies
// observers and schedules a save. This is the only entry point the adapter
// uses.
func (st *Store) ProcessEvent(ev models.Event) {
	st.mu.Lock()
	st.processEvent(ev)
	st.mu.Unlock()
	st.notify()
	st.scheduleSave()
}

func (st *Store) processEvent(ev models.Event) {
	s := st.state
	switch ev := ev.(type) {
	case models.FriendRequestReceivedEvent:
		s.SetIdentity(ev.From)
		s.Friends.RequestReceived(ev.From.DID)
		s.UI.AddToast("Friend request", ev.From.Username+" sent you a friend request", "user-plus")
	case models.FriendRequestSentEvent:
		s.SetIdentity(ev.To)
		s.Friends.RequestSent(ev.To.DID)
	case models.FriendRequestCancelledEvent:
		s.Friends.RequestClosed(ev.Peer.DID)
	case models.FriendAddedEvent:
		s.SetIdentity(ev.Peer)
		s.Friends.AddFriend(ev.Peer.DID)
	case models.FriendRemovedEvent:
		s.Friends.RemoveFriend(ev.Peer.DID)
	case models.IdentityOnlineEvent:
		s.SetIdentity(ev.Peer)
	case models.IdentityOfflineEvent:
		s.SetIdentity(ev.Peer)
	case models.IdentityUpdatedEvent:
		st.apply(UpdateIdentity{Identity: ev.Peer})
	case models.BlockedEvent:
		st.apply(Block{DID: ev.Peer.DID})
	case models.UnblockedEvent:
		s.Friends.Unblock(ev.Peer.DID)

	case models.ConversationCreatedEvent:
		st.apply(AddChat{
			Conversation: ev.Conversation,
			Identities:   ev.Identities,
			Messages:     ev.Messages,
			HasMore:      ev.HasMore,
		})
		s.Chats.AddToSidebar(ev.Conversation.ID)
	case models.ConversationDeletedEvent:
		s.Chats.Remove(ev.ID)
	case models.ConversationNameUpdatedEvent:
		if c, ok := s.Chats.Get(ev.ID); ok {
			c.Conversation.Name = ev.Name
		}
	case models.RecipientAddedEvent:
		s.SetIdentity(ev.Peer)
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			c.Conversation.Participants = append(c.Conversation.Participants, ev.Peer.DID)
		}
	case models.RecipientRemovedEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			ps := c.Conversation.Participants
			for i, p := range ps {
				if p == ev.PeerDID {
					c.Conversation.Participants = append(ps[:i], ps[i+1:]...)
					break
				}
			}
		}

	case models.MessageReceivedEvent:
		c, ok := s.Chats.Get(ev.ConversationID)
		if !ok {
			log.Printf("message for unknown conversation %s", ev.ConversationID)
			return
		}
		if !c.AddMessage(ev.Message) {
			return
		}
		delete(c.Typing, ev.Message.SenderID)
		// a message only counts as read when its chat fills a focused window
		if s.Chats.Active != ev.ConversationID || !s.UI.WindowFocused {
			c.Unreads++
		}
		s.Chats.AddToSidebar(ev.ConversationID)
	case models.MessageSentEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			if !c.ReconcileSent(ev.Message.ID, ev.Message) {
				c.AddMessage(ev.Message)
			}
			s.Chats.AddToSidebar(ev.ConversationID)
		}
	case models.MessageEditedEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			c.UpdateMessage(ev.Message)
		}
	case models.MessageDeletedEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			c.RemoveMessage(ev.MessageID)
			c.UnpinMessage(ev.MessageID)
		}
	case models.MessagePinnedEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			c.PinMessage(ev.Message)
		}
	case models.MessageUnpinnedEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			c.UnpinMessage(ev.Message.ID)
		}
	case models.ReactionAddedEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			if m, found := c.Message(ev.MessageID); found {
				addReaction(&m, ev.Emoji, ev.By)
				c.UpdateMessage(m)
			}
		}
	case models.ReactionRemovedEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			if m, found := c.Message(ev.MessageID); found {
				removeReaction(&m, ev.Emoji, ev.By)
				c.UpdateMessage(m)
			}
		}
	case models.TypingIndicatorEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			c.TypingIndicator(ev.Participant, time.Now())
		}
	case models.AttachmentProgressEvent:
		if c, ok := s.Chats.Get(ev.ConversationID); ok {
			c.UpdateAttachmentProgress(ev.PendingID, ev.Name, ev.Progress)
		}

	case models.CallOfferedEvent:
		if err := s.Call.PendingCall(ev.CallID, ev.ConversationID, ev.Participants); err != nil {
			log.Printf("pending call %s: %v", ev.CallID, err)
			return
		}
		s.UI.AddToast("Incoming call", "", "phone")
	case models.CallAnsweredEvent:
		if err := s.Call.ParticipantJoined(ev.CallID, ev.Peer); err != nil {
			log.Printf("call answered %s: %v", ev.CallID, err)
		}
	case models.CallEndedEvent:
		if s.Call.Active != nil && s.Call.Active.ID == ev.CallID {
			s.Call.EndCall()
		}
		s.Call.RejectCall(ev.CallID)
	case models.ParticipantJoinedEvent:
		if err := s.Call.ParticipantJoined(ev.CallID, ev.Peer); err != nil {
			log.Printf("participant joined %s: %v", ev.CallID, err)
		}
	case models.ParticipantLeftEvent:
		if err := s.Call.ParticipantLeft(ev.CallID, ev.Peer); err != nil {
			log.Printf("participant left %s: %v", ev.CallID, err)
		}
	case models.ParticipantSpeakingEvent:
		if err := s.Call.ParticipantSpeaking(ev.CallID, ev.Peer); err != nil {
			log.Printf("participant speaking %s: %v", ev.CallID, err)
		}
	}
}

func addReaction(m *models.Message, emoji, by string) {
	for i := range m.Reactions {
		if m.Reactions[i].Emoji != emoji {
			continue
		}
		for _, u := range m.Reactions[i].Users {
			if u == by {
				return
			}
		}
		m.Reactions[i].Users = append(m.Reactions[i].Users, by)
		return
	}
	m.Reactions = append(m.Reactions, models.Reaction{Emoji: emoji, Users: []string{by}})
}

func removeReaction(m *models.Message, emoji, by string) {
	for i := range m.Reactions {
		if m.Reactions[i].Emoji != emoji {
			continue
		}
		users := m.Reactions[i].Users
		for j, u := range users {
			if u == by {
				m.Reactions[i].Users = append(users[:j], users[j+1:]...)
				break
			}
		}
		if len(m.Reactions[i].Users) == 0 {
			m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
		}
		return
	}
}
