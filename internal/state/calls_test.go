package state

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOfferCallReplacesActive(t *testing.T) {
	var ci CallInfo

	first := uuid.New()
	ci.OfferCall(first, uuid.New(), []string{"did:a"})
	if id, ok := ci.ActiveCallID(); !ok || id != first {
		t.Fatal("first offer should be the active call")
	}

	second := uuid.New()
	ci.OfferCall(second, uuid.New(), []string{"did:b"})
	if id, _ := ci.ActiveCallID(); id != second {
		t.Fatal("second offer should replace the active call")
	}
}

func TestPendingCallDuplicate(t *testing.T) {
	var ci CallInfo

	id := uuid.New()
	if err := ci.PendingCall(id, uuid.New(), nil); err != nil {
		t.Fatalf("first pending: %v", err)
	}
	if err := ci.PendingCall(id, uuid.New(), nil); !errors.Is(err, ErrDuplicateCall) {
		t.Fatalf("want ErrDuplicateCall, got %v", err)
	}
}

func TestAnswerCallPromotesPending(t *testing.T) {
	var ci CallInfo

	id := uuid.New()
	if err := ci.PendingCall(id, uuid.New(), []string{"did:a"}); err != nil {
		t.Fatalf("pending: %v", err)
	}

	call, err := ci.AnswerCall(id, "did:self")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if active, _ := ci.ActiveCallID(); active != id {
		t.Fatal("answered call should become active")
	}
	if !call.Joined["did:self"] {
		t.Fatal("answering participant should be joined")
	}
	if len(ci.Pending) != 0 {
		t.Fatal("answered call should leave the pending list")
	}
}

func TestAnswerCallNotPending(t *testing.T) {
	var ci CallInfo

	if _, err := ci.AnswerCall(uuid.New(), "did:self"); !errors.Is(err, ErrCallNotPending) {
		t.Fatalf("want ErrCallNotPending, got %v", err)
	}
}

func TestRejectCallUnknownIsNoop(t *testing.T) {
	var ci CallInfo

	id := uuid.New()
	if err := ci.PendingCall(id, uuid.New(), nil); err != nil {
		t.Fatalf("pending: %v", err)
	}
	ci.RejectCall(uuid.New())
	if len(ci.Pending) != 1 {
		t.Fatal("rejecting an unknown id should not touch other pending calls")
	}
	ci.RejectCall(id)
	if len(ci.Pending) != 0 {
		t.Fatal("rejected call should be removed")
	}
}

func TestParticipantOpsRequireActiveCall(t *testing.T) {
	var ci CallInfo

	if err := ci.ParticipantJoined(uuid.New(), "did:a"); !errors.Is(err, ErrNoActiveCall) {
		t.Fatalf("want ErrNoActiveCall, got %v", err)
	}

	id := uuid.New()
	ci.OfferCall(id, uuid.New(), []string{"did:a"})
	if err := ci.ParticipantJoined(uuid.New(), "did:a"); !errors.Is(err, ErrWrongCallID) {
		t.Fatalf("want ErrWrongCallID, got %v", err)
	}
	if err := ci.ParticipantJoined(id, "did:a"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if !ci.Active.Joined["did:a"] {
		t.Fatal("participant should be joined")
	}
}

func TestSpeakingDecay(t *testing.T) {
	var ci CallInfo

	id := uuid.New()
	ci.OfferCall(id, uuid.New(), []string{"did:a"})
	if err := ci.ParticipantSpeaking(id, "did:a"); err != nil {
		t.Fatalf("speaking: %v", err)
	}

	now := time.Now()
	if !ci.Active.IsSpeaking("did:a", now) {
		t.Fatal("participant should be speaking right after the signal")
	}
	if ci.UpdateActiveCall(now) {
		t.Fatal("nothing should expire inside the window")
	}
	if !ci.UpdateActiveCall(now.Add(speakingTimeout + time.Second)) {
		t.Fatal("speaking entry should expire past the window")
	}
	if ci.Active.IsSpeaking("did:a", now.Add(speakingTimeout+time.Second)) {
		t.Fatal("participant should no longer be speaking")
	}
}

func TestEndCallClearsPopout(t *testing.T) {
	var ci CallInfo

	ci.OfferCall(uuid.New(), uuid.New(), nil)
	w := uuid.New()
	ci.PopoutWindow = &w
	ci.EndCall()
	if ci.Active != nil || ci.PopoutWindow != nil {
		t.Fatal("ending the call should clear the call and its popout")
	}
	ci.EndCall()
}

func TestMuteRequiresCall(t *testing.T) {
	var ci CallInfo

	if err := ci.MuteSelf(); !errors.Is(err, ErrNoActiveCall) {
		t.Fatalf("want ErrNoActiveCall, got %v", err)
	}
	ci.OfferCall(uuid.New(), uuid.New(), nil)
	if err := ci.MuteSelf(); err != nil {
		t.Fatalf("mute: %v", err)
	}
	if !ci.Active.SelfMuted {
		t.Fatal("call should be muted")
	}
	if err := ci.UnmuteSelf(); err != nil {
		t.Fatalf("unmute: %v", err)
	}
	if ci.Active.SelfMuted {
		t.Fatal("call should be unmuted")
	}
}
