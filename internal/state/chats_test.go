package state

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

func makeMessage(convID uuid.UUID, sentAt time.Time, content string) models.Message {
	return models.Message{
		ID:             uuid.New(),
		ConversationID: convID,
		SenderID:       "did:peer",
		Content:        content,
		SentAt:         sentAt,
	}
}

func TestMergeMessagesDeduplicates(t *testing.T) {
	convID := uuid.New()
	base := time.Now()
	m1 := makeMessage(convID, base, "one")
	m2 := makeMessage(convID, base.Add(time.Minute), "two")
	m3 := makeMessage(convID, base.Add(2*time.Minute), "three")

	chat := NewChat(models.Conversation{ID: convID}, []models.Message{m2, m3}, true)
	chat.MergeMessages([]models.Message{m1, m2})

	if len(chat.Messages) != 3 {
		t.Fatalf("want 3 messages, got %d", len(chat.Messages))
	}
	for i, want := range []uuid.UUID{m1.ID, m2.ID, m3.ID} {
		if chat.Messages[i].ID != want {
			t.Fatalf("message %d out of order", i)
		}
	}
}

func TestAddMessageIgnoresDuplicates(t *testing.T) {
	convID := uuid.New()
	m := makeMessage(convID, time.Now(), "hi")
	chat := NewChat(models.Conversation{ID: convID}, nil, false)

	if !chat.AddMessage(m) {
		t.Fatal("first add should report true")
	}
	if chat.AddMessage(m) {
		t.Fatal("duplicate add should report false")
	}
	if len(chat.Messages) != 1 {
		t.Fatalf("want 1 message, got %d", len(chat.Messages))
	}
}

func TestReconcileSent(t *testing.T) {
	convID := uuid.New()
	chat := NewChat(models.Conversation{ID: convID}, nil, false)

	pending := models.NewPendingMessage(convID, "did:self", "hello", nil)
	chat.AppendPending(pending)
	if len(chat.Messages) != 1 {
		t.Fatal("pending message should render in the window")
	}

	confirmed := makeMessage(convID, time.Now(), "hello")
	confirmed.SenderID = "did:self"
	if !chat.ReconcileSent(pending.ID, confirmed) {
		t.Fatal("reconcile should match the provisional id")
	}
	if len(chat.PendingOutgoing) != 0 {
		t.Fatal("reconciled message should leave the pending list")
	}
	if len(chat.Messages) != 1 || chat.Messages[0].ID != confirmed.ID {
		t.Fatal("optimistic copy should be replaced by the confirmed message")
	}

	if chat.ReconcileSent(pending.ID, confirmed) {
		t.Fatal("second reconcile of the same id should report false")
	}
}

func TestReconcileSentAfterStreamDelivery(t *testing.T) {
	convID := uuid.New()
	chat := NewChat(models.Conversation{ID: convID}, nil, false)

	pending := models.NewPendingMessage(convID, "did:self", "hello", nil)
	chat.AppendPending(pending)

	// the confirmed message arrives through the event stream first
	confirmed := makeMessage(convID, time.Now(), "hello")
	confirmed.SenderID = "did:self"
	chat.AddMessage(confirmed)

	if !chat.ReconcileSent(pending.ID, confirmed) {
		t.Fatal("reconcile should match the provisional id")
	}
	if len(chat.Messages) != 1 || chat.Messages[0].ID != confirmed.ID {
		t.Fatalf("want the confirmed message exactly once, got %d messages", len(chat.Messages))
	}
	if len(chat.PendingOutgoing) != 0 {
		t.Fatal("reconciled message should leave the pending list")
	}
}

func TestMarkPendingFailedKeepsMessage(t *testing.T) {
	convID := uuid.New()
	chat := NewChat(models.Conversation{ID: convID}, nil, false)

	pending := models.NewPendingMessage(convID, "did:self", "hello", nil)
	chat.AppendPending(pending)

	if !chat.MarkPendingFailed(pending.ID) {
		t.Fatal("pending message should be found")
	}
	if chat.PendingOutgoing[0].State != models.PendingFailed {
		t.Fatal("pending message should be marked failed")
	}
	if len(chat.Messages) != 1 {
		t.Fatal("failed message should stay visible")
	}

	chat.RemovePending(pending.ID)
	if len(chat.PendingOutgoing) != 0 || len(chat.Messages) != 0 {
		t.Fatal("removed pending message should disappear entirely")
	}
}

func TestPinNewestFirst(t *testing.T) {
	convID := uuid.New()
	chat := NewChat(models.Conversation{ID: convID}, nil, false)

	m1 := makeMessage(convID, time.Now(), "one")
	m2 := makeMessage(convID, time.Now(), "two")
	chat.AddMessage(m1)
	chat.AddMessage(m2)

	chat.PinMessage(m1)
	chat.PinMessage(m2)
	chat.PinMessage(m2)

	if len(chat.PinnedMessages) != 2 {
		t.Fatalf("want 2 pins, got %d", len(chat.PinnedMessages))
	}
	if chat.PinnedMessages[0].ID != m2.ID {
		t.Fatal("newest pin should come first")
	}
	if got, _ := chat.Message(m2.ID); !got.Pinned {
		t.Fatal("pinned flag should be set on the window copy")
	}

	chat.UnpinMessage(m2.ID)
	if len(chat.PinnedMessages) != 1 || chat.PinnedMessages[0].ID != m1.ID {
		t.Fatal("unpin should remove only the targeted message")
	}
	if got, _ := chat.Message(m2.ID); got.Pinned {
		t.Fatal("pinned flag should be cleared on the window copy")
	}
}

func TestTypingExpiry(t *testing.T) {
	convID := uuid.New()
	chat := NewChat(models.Conversation{ID: convID}, nil, false)

	now := time.Now()
	chat.TypingIndicator("did:peer", now)
	if chat.ExpireTyping(now.Add(time.Second)) {
		t.Fatal("indicator should survive inside the window")
	}
	if !chat.ExpireTyping(now.Add(typingIndicatorTimeout + time.Second)) {
		t.Fatal("indicator should expire past the window")
	}
	if len(chat.Typing) != 0 {
		t.Fatal("expired indicator should be removed")
	}
}

func TestShouldSendTypingRateLimits(t *testing.T) {
	convID := uuid.New()
	chat := NewChat(models.Conversation{ID: convID}, nil, false)

	now := time.Now()
	if !chat.ShouldSendTyping(now) {
		t.Fatal("first signal should send")
	}
	if chat.ShouldSendTyping(now.Add(time.Second)) {
		t.Fatal("signal inside the interval should be suppressed")
	}
	if !chat.ShouldSendTyping(now.Add(typingSendInterval)) {
		t.Fatal("signal after the interval should send")
	}
}

func TestReorderFavorites(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	cs := NewChats()
	cs.Favorites = []uuid.UUID{a, b, c}

	// dragging forward and backward both drop source right before target
	cs.ReorderFavorites(a, c)
	if got := cs.Favorites; got[0] != b || got[1] != a || got[2] != c {
		t.Fatalf("forward reorder wrong: %v", got)
	}

	cs.Favorites = []uuid.UUID{a, b, c}
	cs.ReorderFavorites(c, a)
	if got := cs.Favorites; got[0] != c || got[1] != a || got[2] != b {
		t.Fatalf("backward reorder wrong: %v", got)
	}

	cs.Favorites = []uuid.UUID{a, b, c}
	cs.ReorderFavorites(a, a)
	if got := cs.Favorites; got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("self reorder should be a no-op: %v", got)
	}

	cs.ReorderFavorites(uuid.New(), b)
	if len(cs.Favorites) != 3 {
		t.Fatal("unknown source should be a no-op")
	}
}

func TestRemoveClearsEveryReference(t *testing.T) {
	convID := uuid.New()
	cs := NewChats()
	cs.All[convID] = NewChat(models.Conversation{ID: convID}, nil, false)
	cs.AddToSidebar(convID)
	cs.AddFavorite(convID)
	cs.Active = convID

	cs.Remove(convID)
	if _, ok := cs.Get(convID); ok {
		t.Fatal("chat should be gone")
	}
	if cs.InSidebarIndex(convID) != -1 {
		t.Fatal("chat should leave the sidebar")
	}
	if cs.IsFavorite(convID) {
		t.Fatal("chat should leave the favorites")
	}
	if cs.Active != uuid.Nil {
		t.Fatal("active chat should be cleared")
	}
}
