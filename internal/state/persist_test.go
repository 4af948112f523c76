package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	st := NewStore(path)
	st.Mutate(SetIdentity{Identity: models.Identity{DID: "did:self", Username: "me"}})
	convID := addTestChat(st, "did:peer")
	st.Mutate(Favorite{ID: convID})
	st.Mutate(SetFontScale{Scale: 1.5})
	st.Mutate(SidebarHidden{Hidden: true})
	if err := st.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	reloaded := NewStore(path)
	reloaded.View(func(s *State) {
		if s.Account.DID != "did:self" {
			t.Fatal("account should survive a reload")
		}
		if _, ok := s.Chats.Get(convID); !ok {
			t.Fatal("chat should survive a reload")
		}
		if !s.Chats.IsFavorite(convID) {
			t.Fatal("favorites should survive a reload")
		}
		if s.Settings.FontScale != 1.5 {
			t.Fatal("settings should survive a reload")
		}
		if !s.UI.SidebarHidden {
			t.Fatal("sidebar preference should survive a reload")
		}
	})
}

func TestLoadCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	st := NewStore(path)
	st.View(func(s *State) {
		if s.Settings.FontScale != 1.0 {
			t.Fatal("corrupt snapshot should fall back to defaults")
		}
		if len(s.Chats.All) != 0 {
			t.Fatal("corrupt snapshot should start empty")
		}
	})
}

func TestLoadMissingFieldsGetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	// a snapshot from a build that predates settings
	if err := os.WriteFile(path, []byte(`{"account":{"did":"did:self"}}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	st := NewStore(path)
	st.View(func(s *State) {
		if s.Account.DID != "did:self" {
			t.Fatal("present fields should load")
		}
		if s.Settings.FontScale != 1.0 {
			t.Fatalf("absent font scale should default to 1.0, got %v", s.Settings.FontScale)
		}
		if s.Settings.Language != "en-US" {
			t.Fatal("absent language should default")
		}
		if s.Identities == nil || s.Chats.All == nil || s.Friends.All == nil {
			t.Fatal("maps should be allocated after load")
		}
	})
}

func TestEphemeralStateNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	st := NewStore(path)
	st.Mutate(OfferCall{ID: uuid.New(), ConversationID: uuid.New()})
	st.Mutate(AddToastNotification{Title: "transient"})
	if err := st.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	reloaded := NewStore(path)
	reloaded.View(func(s *State) {
		if s.Call.Active != nil {
			t.Fatal("calls should not survive a reload")
		}
		if len(s.UI.Toasts) != 0 {
			t.Fatal("toasts should not survive a reload")
		}
	})
}
