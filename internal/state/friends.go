package state

// Friends tracks peer relationships by did. All four sets are disjoint for a
// given peer; the mutators below enforce that.
type Friends struct {
	All      map[string]bool `json:"all"`
	Incoming map[string]bool `json:"incoming"`
	Outgoing map[string]bool `json:"outgoing"`
	Blocked  map[string]bool `json:"blocked"`
}

func NewFriends() Friends {
	return Friends{
		All:      make(map[string]bool),
		Incoming: make(map[string]bool),
		Outgoing: make(map[string]bool),
		Blocked:  make(map[string]bool),
	}
}

func (f *Friends) IsFriend(did string) bool  { return f.All[did] }
func (f *Friends) IsBlocked(did string) bool { return f.Blocked[did] }

// AddFriend promotes a peer to friend, clearing any request either way.
func (f *Friends) AddFriend(did string) {
	delete(f.Incoming, did)
	delete(f.Outgoing, did)
	f.All[did] = true
}

func (f *Friends) RemoveFriend(did string) {
	delete(f.All, did)
}

func (f *Friends) RequestReceived(did string) {
	f.Incoming[did] = true
}

func (f *Friends) RequestSent(did string) {
	f.Outgoing[did] = true
}

// RequestClosed clears a request in either direction, covering cancellation
// and denial alike.
func (f *Friends) RequestClosed(did string) {
	delete(f.Incoming, did)
	delete(f.Outgoing, did)
}

// Block severs the relationship entirely: the peer leaves the friend list and
// any pending requests are dropped.
func (f *Friends) Block(did string) {
	delete(f.All, did)
	delete(f.Incoming, did)
	delete(f.Outgoing, did)
	f.Blocked[did] = true
}

func (f *Friends) Unblock(did string) {
	delete(f.Blocked, did)
}
