// Package state is the single source of truth for everything the shell
// renders. All mutation funnels through Store.Mutate or Store.ProcessEvent;
// reads go through Store.View. Observers are notified synchronously after
// each mutation and persistent fields are saved to disk on a debounce.
package state

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

const saveDebounce = time.Second

// State is the full client-side application state.
type State struct {
	// local user, zero-valued until the runtime reports it
	Account models.Identity `json:"account"`
	// every identity seen so far, keyed by did
	Identities map[string]models.Identity `json:"identities"`
	Friends    Friends                    `json:"friends"`
	Chats      Chats                      `json:"chats"`
	Call       CallInfo                   `json:"-"`
	UI         UI                         `json:"ui"`
	Settings   Settings                   `json:"settings"`
}

func NewState() *State {
	return &State{
		Identities: make(map[string]models.Identity),
		Friends:    NewFriends(),
		Chats:      NewChats(),
		UI:         NewUI(),
		Settings:   DefaultSettings(),
	}
}

// Identity returns the cached identity for did, or a placeholder when the
// peer has not been seen yet.
func (s *State) Identity(did string) models.Identity {
	if id, ok := s.Identities[did]; ok {
		return id
	}
	return models.PlaceholderIdentity(did)
}

// SetIdentity merges an identity into the cache, keeping previously fetched
// profile images the refresh omitted.
func (s *State) SetIdentity(id models.Identity) {
	if have, ok := s.Identities[id.DID]; ok {
		have.Supersede(id)
		s.Identities[id.DID] = have
		return
	}
	s.Identities[id.DID] = id
}

// Store wraps State with locking, observer fan-out and debounced
// persistence.
type Store struct {
	mu    sync.RWMutex
	state *State

	obsMu     sync.Mutex
	observers map[uuid.UUID]func()

	path      string
	saveMu    sync.Mutex
	saveTimer *time.Timer
}

// NewStore loads persisted state from path, falling back to defaults when the
// file is missing or unreadable. An empty path disables persistence.
func NewStore(path string) *Store {
	return &Store{
		state:     loadState(path),
		observers: make(map[uuid.UUID]func()),
		path:      path,
	}
}

// Observe registers a callback invoked synchronously after every mutation.
// The returned func unregisters it.
func (st *Store) Observe(fn func()) func() {
	id := uuid.New()
	st.obsMu.Lock()
	st.observers[id] = fn
	st.obsMu.Unlock()
	return func() {
		st.obsMu.Lock()
		delete(st.observers, id)
		st.obsMu.Unlock()
	}
}

func (st *Store) notify() {
	st.obsMu.Lock()
	fns := make([]func(), 0, len(st.observers))
	for _, fn := range st.observers {
		fns = append(fns, fn)
	}
	st.obsMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// View runs fn under the read lock. fn must not retain references to state
// internals past its return.
func (st *Store) View(fn func(s *State)) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	fn(st.state)
}

// Mutate applies the action under the write lock, then notifies observers and
// schedules a save.
func (st *Store) Mutate(a Action) {
	st.mu.Lock()
	st.apply(a)
	st.mu.Unlock()
	st.notify()
	st.scheduleSave()
}

// Tick runs the periodic maintenance pass: speaking decay, typing indicator
// expiry and toast countdowns. Observers are notified only when something
// changed.
func (st *Store) Tick(now time.Time) {
	st.mu.Lock()
	changed := st.state.Call.UpdateActiveCall(now)
	if st.state.Chats.ExpireTyping(now) {
		changed = true
	}
	if st.state.UI.DecayToasts() {
		changed = true
	}
	st.mu.Unlock()
	if changed {
		st.notify()
	}
}

func (st *Store) apply(a Action) {
	s := st.state
	switch a := a.(type) {
	case ChatWith:
		if c, ok := s.Chats.Get(a.ID); ok {
			s.Chats.Active = a.ID
			s.Chats.AddToSidebar(a.ID)
			c.Unreads = 0
		} else {
			log.Printf("no conversation %s to open", a.ID)
		}
	case AddChat:
		if _, ok := s.Chats.Get(a.Conversation.ID); !ok {
			s.Chats.All[a.Conversation.ID] = NewChat(a.Conversation, a.Messages, a.HasMore)
		}
		for _, id := range a.Identities {
			s.SetIdentity(id)
		}
	case ClearActiveChat:
		s.Chats.Active = uuid.Nil
	case Favorite:
		s.Chats.AddFavorite(a.ID)
	case Unfavorite:
		s.Chats.RemoveFavorite(a.ID)
	case ToggleFavorite:
		if s.Chats.IsFavorite(a.ID) {
			s.Chats.RemoveFavorite(a.ID)
		} else {
			s.Chats.AddFavorite(a.ID)
		}
	case ReorderFavorites:
		s.Chats.ReorderFavorites(a.Source, a.Target)
	case AddToSidebar:
		s.Chats.AddToSidebar(a.ID)
	case RemoveFromSidebar:
		s.Chats.RemoveFromSidebar(a.ID)
	case ClearUnreads:
		if c, ok := s.Chats.Get(a.ID); ok {
			c.Unreads = 0
		}
	case StartReplying:
		if c, ok := s.Chats.Get(a.ID); ok {
			m := a.Message
			c.Replying = &m
		}
	case CancelReply:
		if c, ok := s.Chats.Get(a.ID); ok {
			c.Replying = nil
		}
	case SetChatDraft:
		if c, ok := s.Chats.Get(a.ID); ok {
			c.Draft = a.Draft
		}
	case ClearChatDraft:
		if c, ok := s.Chats.Get(a.ID); ok {
			c.Draft = ""
		}
	case SetChatAttachments:
		if c, ok := s.Chats.Get(a.ID); ok {
			c.Attachments = a.Paths
		}
	case ClearChatAttachments:
		if c, ok := s.Chats.Get(a.ID); ok {
			c.Attachments = nil
		}
	case NewPendingMessage:
		if c, ok := s.Chats.Get(a.ID); ok {
			c.AppendPending(a.Pending)
		}
	case PendingMessageCompleted:
		if c, ok := s.Chats.Get(a.ID); ok {
			if !c.ReconcileSent(a.PendingID, a.Message) {
				c.AddMessage(a.Message)
			}
		}
	case PendingMessageFailed:
		if c, ok := s.Chats.Get(a.ID); ok {
			if !c.MarkPendingFailed(a.PendingID) {
				log.Printf("no pending message %s in %s", a.PendingID, a.ID)
			}
		}
	case DismissPendingMessage:
		if c, ok := s.Chats.Get(a.ID); ok {
			c.RemovePending(a.PendingID)
		}

	case NewIncomingRequest:
		s.SetIdentity(a.Identity)
		s.Friends.RequestReceived(a.Identity.DID)
	case NewOutgoingRequest:
		s.SetIdentity(a.Identity)
		s.Friends.RequestSent(a.Identity.DID)
	case CancelRequest:
		s.Friends.RequestClosed(a.DID)
	case RequestAccepted:
		s.SetIdentity(a.Identity)
		s.Friends.AddFriend(a.Identity.DID)
	case RemoveFriend:
		s.Friends.RemoveFriend(a.DID)
	case Block:
		s.Friends.Block(a.DID)
		if c, ok := s.Chats.DirectChatWith(a.DID); ok {
			id := c.ID()
			s.Chats.RemoveFromSidebar(id)
			s.Chats.RemoveFavorite(id)
			if s.Chats.Active == id {
				s.Chats.Active = uuid.Nil
			}
		}
	case Unblock:
		s.Friends.Unblock(a.DID)

	case SetIdentity:
		s.Account = a.Identity
		s.SetIdentity(a.Identity)
	case UpdateIdentity:
		s.SetIdentity(a.Identity)
		if a.Identity.DID == s.Account.DID {
			s.Account = s.Identities[a.Identity.DID]
		}

	case OfferCall:
		s.Call.OfferCall(a.ID, a.ConversationID, a.Participants)
	case AnswerCall:
		if _, err := s.Call.AnswerCall(a.ID, s.Account.DID); err != nil {
			log.Printf("answer call %s: %v", a.ID, err)
		}
	case RejectCall:
		s.Call.RejectCall(a.ID)
	case EndCall:
		s.Call.EndCall()
	case ToggleMute:
		var err error
		if s.Call.Active != nil && s.Call.Active.SelfMuted {
			err = s.Call.UnmuteSelf()
		} else {
			err = s.Call.MuteSelf()
		}
		if err != nil {
			log.Printf("toggle mute: %v", err)
		}
	case ToggleSilence:
		var err error
		if s.Call.Active != nil && s.Call.Active.CallSilenced {
			err = s.Call.UnsilenceCall()
		} else {
			err = s.Call.SilenceCall()
		}
		if err != nil {
			log.Printf("toggle silence: %v", err)
		}
	case SetCallPopout:
		w := a.Window
		s.Call.PopoutWindow = &w
	case ClearCallPopout:
		s.Call.PopoutWindow = nil

	case Navigate:
		s.UI.CurrentRoute = a.To
	case SidebarHidden:
		s.UI.SidebarHidden = a.Hidden
	case SetWindowFocused:
		s.UI.WindowFocused = a.Focused
	case AddToastNotification:
		s.UI.AddToast(a.Title, a.Content, a.Icon)
	case ResetToastTimer:
		s.UI.ResetToast(a.ID)
	case DismissToast:
		s.UI.RemoveToast(a.ID)
	case SetUpdateAvailable:
		s.UI.UpdateAvailable = a.Version
	case DismissUpdate:
		s.UI.UpdateAvailable = ""

	case SetFontScale:
		s.Settings.FontScale = a.Scale
	case SetTheme:
		s.Settings.Theme = a.Theme
	case SetLanguage:
		s.Settings.Language = a.Language
	}
}
