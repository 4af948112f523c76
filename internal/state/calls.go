package state

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Typed call-ledger failures. Most call sites log and ignore these since they
// usually indicate a race between the UI and call signaling, not a bug.
var (
	ErrNoActiveCall   = errors.New("no call in progress")
	ErrWrongCallID    = errors.New("wrong call id")
	ErrCallNotPending = errors.New("call not pending")
	ErrDuplicateCall  = errors.New("call with that id already pending")
)

// a participant counts as speaking until this long after their last signal
const speakingTimeout = 3 * time.Second

type Call struct {
	ID             uuid.UUID       `json:"id"`
	ConversationID uuid.UUID       `json:"conversation_id"`
	Participants   []string        `json:"participants"`
	Joined         map[string]bool `json:"joined"`
	// last speaking signal per participant, expired by UpdateActiveCall
	Speaking     map[string]time.Time `json:"-"`
	SelfMuted    bool                 `json:"self_muted"`
	CallSilenced bool                 `json:"call_silenced"`
	AnsweredAt   time.Time            `json:"answered_at"`
}

func NewCall(id, conversationID uuid.UUID, participants []string) *Call {
	return &Call{
		ID:             id,
		ConversationID: conversationID,
		Participants:   participants,
		Joined:         make(map[string]bool),
		Speaking:       make(map[string]time.Time),
		AnsweredAt:     time.Now(),
	}
}

// IsSpeaking reports whether the participant signaled speech within the decay
// window as of now.
func (c *Call) IsSpeaking(did string, now time.Time) bool {
	last, ok := c.Speaking[did]
	return ok && now.Sub(last) <= speakingTimeout
}

// CallInfo tracks at most one active call and the calls offered to us that
// have not been answered yet.
type CallInfo struct {
	Active  *Call   `json:"-"`
	Pending []*Call `json:"-"`
	// opaque key for the popout window associated with the active call,
	// resolved through the shell's window registry
	PopoutWindow *uuid.UUID `json:"-"`
}

func (ci *CallInfo) ActiveCallID() (uuid.UUID, bool) {
	if ci.Active == nil {
		return uuid.Nil, false
	}
	return ci.Active.ID, true
}

// OfferCall unconditionally replaces any active call with a freshly offered
// one. Last writer wins.
func (ci *CallInfo) OfferCall(id, conversationID uuid.UUID, participants []string) *Call {
	call := NewCall(id, conversationID, participants)
	ci.Active = call
	return call
}

// PendingCall records an incoming offer. Offers are unique by call id.
func (ci *CallInfo) PendingCall(id, conversationID uuid.UUID, participants []string) error {
	for _, c := range ci.Pending {
		if c.ID == id {
			return ErrDuplicateCall
		}
	}
	ci.Pending = append(ci.Pending, NewCall(id, conversationID, participants))
	return nil
}

// AnswerCall promotes a pending call to active, replacing any previous active
// call. The joiner, if given, is marked joined on promotion.
func (ci *CallInfo) AnswerCall(id uuid.UUID, joiner string) (*Call, error) {
	for i, c := range ci.Pending {
		if c.ID != id {
			continue
		}
		ci.Pending = append(ci.Pending[:i], ci.Pending[i+1:]...)
		c.AnsweredAt = time.Now()
		if joiner != "" {
			c.Joined[joiner] = true
		}
		ci.Active = c
		return c, nil
	}
	return nil, ErrCallNotPending
}

// RejectCall removes a pending call. Removing an unknown id is a no-op.
func (ci *CallInfo) RejectCall(id uuid.UUID) {
	kept := ci.Pending[:0]
	for _, c := range ci.Pending {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	ci.Pending = kept
}

// EndCall clears the active call. Idempotent.
func (ci *CallInfo) EndCall() {
	ci.Active = nil
	ci.PopoutWindow = nil
}

func (ci *CallInfo) active(callID uuid.UUID) (*Call, error) {
	if ci.Active == nil {
		return nil, ErrNoActiveCall
	}
	if ci.Active.ID != callID {
		return nil, ErrWrongCallID
	}
	return ci.Active, nil
}

func (ci *CallInfo) ParticipantJoined(callID uuid.UUID, did string) error {
	call, err := ci.active(callID)
	if err != nil {
		return err
	}
	call.Joined[did] = true
	return nil
}

func (ci *CallInfo) ParticipantLeft(callID uuid.UUID, did string) error {
	call, err := ci.active(callID)
	if err != nil {
		return err
	}
	delete(call.Joined, did)
	delete(call.Speaking, did)
	return nil
}

func (ci *CallInfo) ParticipantSpeaking(callID uuid.UUID, did string) error {
	call, err := ci.active(callID)
	if err != nil {
		return err
	}
	call.Speaking[did] = time.Now()
	return nil
}

func (ci *CallInfo) ParticipantNotSpeaking(callID uuid.UUID, did string) error {
	call, err := ci.active(callID)
	if err != nil {
		return err
	}
	delete(call.Speaking, did)
	return nil
}

// UpdateActiveCall expires speaking entries older than the decay window.
// Intended to run on a periodic tick; returns whether anything changed so the
// caller can decide if a re-render is warranted.
func (ci *CallInfo) UpdateActiveCall(now time.Time) bool {
	if ci.Active == nil {
		return false
	}
	changed := false
	for did, last := range ci.Active.Speaking {
		if now.Sub(last) > speakingTimeout {
			delete(ci.Active.Speaking, did)
			changed = true
		}
	}
	return changed
}

func (ci *CallInfo) MuteSelf() error {
	if ci.Active == nil {
		return ErrNoActiveCall
	}
	ci.Active.SelfMuted = true
	return nil
}

func (ci *CallInfo) UnmuteSelf() error {
	if ci.Active == nil {
		return ErrNoActiveCall
	}
	ci.Active.SelfMuted = false
	return nil
}

func (ci *CallInfo) SilenceCall() error {
	if ci.Active == nil {
		return ErrNoActiveCall
	}
	ci.Active.CallSilenced = true
	return nil
}

func (ci *CallInfo) UnsilenceCall() error {
	if ci.Active == nil {
		return ErrNoActiveCall
	}
	ci.Active.CallSilenced = false
	return nil
}
