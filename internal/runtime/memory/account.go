// Package memory is an in-process runtime used for local development and
// tests. It honors the same contracts as a real P2P runtime, including event
// emission, without touching the network.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/uplink-client/internal/models"
	"github.com/user/uplink-client/internal/runtime"
)

const eventBuffer = 64

// Account implements runtime.Account over mutex-guarded maps.
type Account struct {
	mu         sync.RWMutex
	self       models.Identity
	passphrase string
	identities map[string]models.Identity
	friends    map[string]bool
	incoming   map[string]bool
	outgoing   map[string]bool
	blocked    map[string]bool
	subs       []chan runtime.AccountEvent
}

func NewAccount(self models.Identity) *Account {
	a := &Account{
		self:       self,
		identities: make(map[string]models.Identity),
		friends:    make(map[string]bool),
		incoming:   make(map[string]bool),
		outgoing:   make(map[string]bool),
		blocked:    make(map[string]bool),
	}
	a.identities[self.DID] = self
	return a
}

// AddPeer seeds a known peer. Test and demo setup only.
func (a *Account) AddPeer(id models.Identity) {
	a.mu.Lock()
	a.identities[id.DID] = id
	a.mu.Unlock()
}

// InjectEvent emits a raw event as if a remote peer caused it, updating the
// relationship maps to match.
func (a *Account) InjectEvent(ev runtime.AccountEvent) {
	a.mu.Lock()
	switch ev.Kind {
	case runtime.FriendRequestReceived:
		a.incoming[ev.DID] = true
	case runtime.FriendRequestClosed:
		delete(a.incoming, ev.DID)
		delete(a.outgoing, ev.DID)
	case runtime.FriendAdded:
		delete(a.incoming, ev.DID)
		delete(a.outgoing, ev.DID)
		a.friends[ev.DID] = true
	case runtime.FriendRemoved:
		delete(a.friends, ev.DID)
	}
	a.mu.Unlock()
	a.emit(ev)
}

func (a *Account) emit(ev runtime.AccountEvent) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, ch := range a.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (a *Account) CreateAccount(ctx context.Context, username, passphrase string) (models.Identity, error) {
	a.mu.Lock()
	a.self.Username = username
	a.passphrase = passphrase
	a.identities[a.self.DID] = a.self
	self := a.self
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.IdentityUpdated, DID: self.DID})
	return self, nil
}

// RecoverAccount restores the identity from its seed phrase. The in-process
// store has nothing to restore, so it just clears the passphrase.
func (a *Account) RecoverAccount(ctx context.Context, seedPhrase string) (models.Identity, error) {
	a.mu.Lock()
	a.passphrase = ""
	self := a.self
	a.mu.Unlock()
	return self, nil
}

func (a *Account) Login(ctx context.Context, passphrase string) (models.Identity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.passphrase != "" && a.passphrase != passphrase {
		return models.Identity{}, runtime.ErrBadPassphrase
	}
	return a.self, nil
}

func (a *Account) OwnIdentity(ctx context.Context) (models.Identity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.self, nil
}

func (a *Account) Identity(ctx context.Context, did string) (models.Identity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.identities[did]
	if !ok {
		return models.Identity{}, fmt.Errorf("identity %s: %w", did, runtime.ErrNotFound)
	}
	return id, nil
}

func (a *Account) IdentityPresence(ctx context.Context, did string) (models.Presence, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.identities[did]
	if !ok {
		return models.PresenceOffline, fmt.Errorf("identity %s: %w", did, runtime.ErrNotFound)
	}
	return id.Presence, nil
}

func (a *Account) IdentityPlatform(ctx context.Context, did string) (models.Platform, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.identities[did]
	if !ok {
		return models.PlatformUnknown, fmt.Errorf("identity %s: %w", did, runtime.ErrNotFound)
	}
	return id.Platform, nil
}

func (a *Account) UpdateUsername(ctx context.Context, username string) error {
	a.mu.Lock()
	a.self.Username = username
	a.identities[a.self.DID] = a.self
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.IdentityUpdated, DID: a.self.DID})
	return nil
}

func (a *Account) UpdateStatusMessage(ctx context.Context, status string) error {
	a.mu.Lock()
	a.self.StatusMessage = status
	a.identities[a.self.DID] = a.self
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.IdentityUpdated, DID: a.self.DID})
	return nil
}

func (a *Account) UpdateProfilePicture(ctx context.Context, dataURI string) error {
	a.mu.Lock()
	a.self.ProfilePicture = dataURI
	a.identities[a.self.DID] = a.self
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.IdentityUpdated, DID: a.self.DID})
	return nil
}

func (a *Account) UpdateBanner(ctx context.Context, dataURI string) error {
	a.mu.Lock()
	a.self.ProfileBanner = dataURI
	a.identities[a.self.DID] = a.self
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.IdentityUpdated, DID: a.self.DID})
	return nil
}

func (a *Account) SendFriendRequest(ctx context.Context, did string) error {
	a.mu.Lock()
	switch {
	case a.blocked[did]:
		a.mu.Unlock()
		return fmt.Errorf("request to %s: %w", did, runtime.ErrBlocked)
	case a.outgoing[did]:
		a.mu.Unlock()
		return fmt.Errorf("request to %s: %w", did, runtime.ErrAlreadySent)
	}
	a.outgoing[did] = true
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.FriendRequestSent, DID: did})
	return nil
}

func (a *Account) AcceptRequest(ctx context.Context, did string) error {
	a.mu.Lock()
	if !a.incoming[did] {
		a.mu.Unlock()
		return fmt.Errorf("accept %s: %w", did, runtime.ErrNotFound)
	}
	delete(a.incoming, did)
	a.friends[did] = true
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.FriendAdded, DID: did})
	return nil
}

func (a *Account) DenyRequest(ctx context.Context, did string) error {
	a.mu.Lock()
	if !a.incoming[did] {
		a.mu.Unlock()
		return fmt.Errorf("deny %s: %w", did, runtime.ErrNotFound)
	}
	delete(a.incoming, did)
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.FriendRequestClosed, DID: did})
	return nil
}

func (a *Account) CloseRequest(ctx context.Context, did string) error {
	a.mu.Lock()
	if !a.outgoing[did] {
		a.mu.Unlock()
		return fmt.Errorf("close %s: %w", did, runtime.ErrNotFound)
	}
	delete(a.outgoing, did)
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.FriendRequestClosed, DID: did})
	return nil
}

func (a *Account) RemoveFriend(ctx context.Context, did string) error {
	a.mu.Lock()
	if !a.friends[did] {
		a.mu.Unlock()
		return fmt.Errorf("remove %s: %w", did, runtime.ErrNotFound)
	}
	delete(a.friends, did)
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.FriendRemoved, DID: did})
	return nil
}

func (a *Account) Block(ctx context.Context, did string) error {
	a.mu.Lock()
	delete(a.friends, did)
	delete(a.incoming, did)
	delete(a.outgoing, did)
	a.blocked[did] = true
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.PeerBlocked, DID: did})
	return nil
}

func (a *Account) Unblock(ctx context.Context, did string) error {
	a.mu.Lock()
	if !a.blocked[did] {
		a.mu.Unlock()
		return fmt.Errorf("unblock %s: %w", did, runtime.ErrNotFound)
	}
	delete(a.blocked, did)
	a.mu.Unlock()
	a.emit(runtime.AccountEvent{Kind: runtime.PeerUnblocked, DID: did})
	return nil
}

func (a *Account) ListFriends(ctx context.Context) ([]string, error) {
	return a.keys(a.friends), nil
}

func (a *Account) ListIncomingRequests(ctx context.Context) ([]string, error) {
	return a.keys(a.incoming), nil
}

func (a *Account) ListOutgoingRequests(ctx context.Context) ([]string, error) {
	return a.keys(a.outgoing), nil
}

func (a *Account) BlockList(ctx context.Context) ([]string, error) {
	return a.keys(a.blocked), nil
}

func (a *Account) keys(set map[string]bool) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, 0, len(set))
	for did := range set {
		out = append(out, did)
	}
	return out
}

func (a *Account) Subscribe(ctx context.Context) (<-chan runtime.AccountEvent, error) {
	ch := make(chan runtime.AccountEvent, eventBuffer)
	a.mu.Lock()
	a.subs = append(a.subs, ch)
	a.mu.Unlock()
	return ch, nil
}
