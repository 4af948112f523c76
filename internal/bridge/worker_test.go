package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/user/uplink-client/internal/models"
	"github.com/user/uplink-client/internal/runtime/memory"
)

func startWorker(t *testing.T) (*Bridge, *memory.Account, *memory.Messaging) {
	t.Helper()

	self := models.Identity{
		DID:      "did:key:selfselfselfself",
		Username: "self",
		Presence: models.PresenceOnline,
		Platform: models.PlatformDesktop,
	}
	account := memory.NewAccount(self)
	messaging := memory.NewMessaging(self.DID)
	storage := memory.NewStorage()
	calling := memory.NewCalling(self.DID)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	streams := NewStreamManager(ctx, messaging)
	t.Cleanup(streams.Close)

	b := New()
	t.Cleanup(b.Close)

	w := NewWorker(account, messaging, storage, calling, streams)
	go w.Run(ctx, b.Commands())

	return b, account, messaging
}

func await[T any](t *testing.T, b *Bridge, cmd Command, rsp Rsp[T]) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.Send(cmd); err != nil {
		t.Fatalf("send %T: %v", cmd, err)
	}
	v, err := Await(ctx, rsp.C)
	if err != nil {
		t.Fatalf("await %T: %v", cmd, err)
	}
	return v
}

func TestAccountLifecycle(t *testing.T) {
	b, _, _ := startWorker(t)

	create := CreateAccount{Username: "fresh-user", Passphrase: "hunter2hunter2", Rsp: NewRsp[IdentityRsp]()}
	got := await(t, b, create, create.Rsp)
	if got.Err != nil {
		t.Fatalf("create: %v", got.Err)
	}
	if got.Identity.Username != "fresh-user" {
		t.Fatalf("want created username, got %q", got.Identity.Username)
	}

	wrong := Login{Passphrase: "not-the-passphrase", Rsp: NewRsp[IdentityRsp]()}
	if got := await(t, b, wrong, wrong.Rsp); got.Err == nil {
		t.Fatal("wrong passphrase should fail login")
	}

	login := Login{Passphrase: "hunter2hunter2", Rsp: NewRsp[IdentityRsp]()}
	if got := await(t, b, login, login.Rsp); got.Err != nil {
		t.Fatalf("login: %v", got.Err)
	}
}

func TestFetchOwnIdentityEnriches(t *testing.T) {
	b, _, _ := startWorker(t)

	cmd := FetchOwnIdentity{Rsp: NewRsp[IdentityRsp]()}
	got := await(t, b, cmd, cmd.Rsp)
	if got.Err != nil {
		t.Fatalf("fetch: %v", got.Err)
	}
	if got.Identity.Username != "self" {
		t.Fatalf("want username self, got %q", got.Identity.Username)
	}
	if got.Identity.Presence != models.PresenceOnline {
		t.Fatal("presence should be enriched")
	}
	if got.Identity.Platform != models.PlatformDesktop {
		t.Fatal("platform should be enriched")
	}
}

func TestUpdateProfileRefetchesIdentity(t *testing.T) {
	b, _, _ := startWorker(t)

	cmd := UpdateProfile{Username: "newname", Rsp: NewRsp[IdentityRsp]()}
	got := await(t, b, cmd, cmd.Rsp)
	if got.Err != nil {
		t.Fatalf("update: %v", got.Err)
	}
	// the response carries the refetched identity, not an echo of the input
	if got.Identity.Username != "newname" {
		t.Fatalf("want refreshed username, got %q", got.Identity.Username)
	}
	if got.Identity.DID == "" {
		t.Fatal("refreshed identity should be complete")
	}
}

func TestCreateConversationHydrates(t *testing.T) {
	b, account, messaging := startWorker(t)
	account.AddPeer(models.Identity{DID: "did:key:peerpeerpeerpeer", Username: "peer"})

	cmd := CreateConversation{DID: "did:key:peerpeerpeerpeer", Rsp: NewRsp[ChatRsp]()}
	got := await(t, b, cmd, cmd.Rsp)
	if got.Err != nil {
		t.Fatalf("create: %v", got.Err)
	}
	if got.Conversation.Kind != models.ConversationDirect {
		t.Fatal("conversation should be direct")
	}
	if len(got.Identities) != 2 {
		t.Fatalf("want 2 identities, got %d", len(got.Identities))
	}
	if got.HasMore {
		t.Fatal("a fresh conversation has no older history")
	}

	// hydration registered the live stream: a delivered message must arrive
	if _, err := messaging.Deliver(got.Conversation.ID, "did:key:peerpeerpeerpeer", "hi"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	sendCmd := SendMessage{
		ConversationID: got.Conversation.ID,
		PendingID:      got.Conversation.ID,
		Content:        "hello back",
		Rsp:            NewRsp[MessageRsp](),
	}
	sent := await(t, b, sendCmd, sendCmd.Rsp)
	if sent.Err != nil {
		t.Fatalf("send message: %v", sent.Err)
	}
	if sent.Message.Content != "hello back" {
		t.Fatal("confirmed message should carry the content")
	}
}

func TestUnknownPeerStillHydratesAsPlaceholder(t *testing.T) {
	b, _, _ := startWorker(t)

	cmd := CreateConversation{DID: "did:key:strangerstranger", Rsp: NewRsp[ChatRsp]()}
	got := await(t, b, cmd, cmd.Rsp)
	if got.Err != nil {
		t.Fatalf("create: %v", got.Err)
	}
	found := false
	for _, id := range got.Identities {
		if id.DID == "did:key:strangerstranger" && id.Username != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("unknown peer should resolve to a placeholder identity")
	}
}

func TestInvalidCommandFailsFast(t *testing.T) {
	b, _, _ := startWorker(t)

	cmd := RequestFriend{Rsp: NewRsp[error]()}
	got := await(t, b, cmd, cmd.Rsp)
	if got == nil {
		t.Fatal("empty did should fail validation")
	}
}

func TestInvalidCommandDeliversTypedError(t *testing.T) {
	b, _, _ := startWorker(t)

	cmd := FetchIdentities{Rsp: NewRsp[IdentitiesRsp]()}
	got := await(t, b, cmd, cmd.Rsp)
	if got.Err == nil {
		t.Fatal("missing dids should fail validation")
	}
}

func TestCommandsExecuteSequentially(t *testing.T) {
	b, _, _ := startWorker(t)

	first := UpdateProfile{Username: "first", Rsp: NewRsp[IdentityRsp]()}
	second := UpdateProfile{Username: "second", Rsp: NewRsp[IdentityRsp]()}
	if err := b.Send(first); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := b.Send(second); err != nil {
		t.Fatalf("send: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := Await(ctx, first.Rsp.C); err != nil {
		t.Fatalf("first: %v", err)
	}
	got, err := Await(ctx, second.Rsp.C)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if got.Identity.Username != "second" {
		t.Fatalf("later command should win, got %q", got.Identity.Username)
	}
}
