package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/user/uplink-client/internal/models"
)

// loadState reads the snapshot at path. A missing file is a fresh install; a
// corrupt one is logged and replaced with defaults rather than aborting
// startup. Fields added since the snapshot was written keep their defaults.
func loadState(path string) *State {
	s := NewState()
	if path == "" {
		return s
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("read state %s: %v", path, err)
		}
		return s
	}
	if err := json.Unmarshal(raw, s); err != nil {
		log.Printf("corrupt state %s, starting fresh: %v", path, err)
		return NewState()
	}
	s.normalize()
	return s
}

// normalize repairs a loaded snapshot: nil maps from older snapshots get
// allocated and out-of-range settings fall back to defaults.
func (s *State) normalize() {
	if s.Identities == nil {
		s.Identities = make(map[string]models.Identity)
	}
	if s.Friends.All == nil {
		s.Friends = NewFriends()
	}
	if s.Chats.All == nil {
		s.Chats = NewChats()
	}
	for _, c := range s.Chats.All {
		if c.Typing == nil {
			c.Typing = make(map[string]time.Time)
		}
	}
	if s.UI.Toasts == nil {
		s.UI = NewUI()
	}
	if s.Settings.FontScale <= 0 {
		s.Settings.FontScale = 1.0
	}
	if s.Settings.Language == "" {
		s.Settings.Language = "en-US"
	}
}

// scheduleSave arms the debounce timer. Bursts of mutations collapse into one
// write.
func (st *Store) scheduleSave() {
	if st.path == "" {
		return
	}
	st.saveMu.Lock()
	defer st.saveMu.Unlock()
	if st.saveTimer != nil {
		return
	}
	st.saveTimer = time.AfterFunc(saveDebounce, func() {
		st.saveMu.Lock()
		st.saveTimer = nil
		st.saveMu.Unlock()
		if err := st.save(); err != nil {
			log.Printf("save state: %v", err)
		}
	})
}

// Flush writes the snapshot immediately, cancelling any pending debounce.
// Called on shutdown.
func (st *Store) Flush() error {
	if st.path == "" {
		return nil
	}
	st.saveMu.Lock()
	if st.saveTimer != nil {
		st.saveTimer.Stop()
		st.saveTimer = nil
	}
	st.saveMu.Unlock()
	return st.save()
}

// save marshals under the read lock and writes through a temp file so a crash
// mid-write never corrupts the snapshot.
func (st *Store) save() error {
	st.mu.RLock()
	raw, err := json.MarshalIndent(st.state, "", "  ")
	st.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return err
	}
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, st.path)
}
