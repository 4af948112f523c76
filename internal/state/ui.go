package state

import (
	"github.com/google/uuid"
)

// lifetime of a toast in maintenance ticks
const toastLifetime = 5

// ToastNotification is a transient banner. Its countdown is decremented once
// per maintenance tick and the toast is dropped at zero; hovering resets it.
type ToastNotification struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Icon    string `json:"icon,omitempty"`
	// ticks remaining before dismissal
	Remaining int `json:"remaining"`
}

// Route names a top-level view of the shell.
type Route string

const (
	RouteChat     Route = "chat"
	RouteFriends  Route = "friends"
	RouteFiles    Route = "files"
	RouteSettings Route = "settings"
)

// UI holds ephemeral presentation state. None of it is persisted except the
// sidebar preference and theme-adjacent settings, which live in Settings.
type UI struct {
	CurrentRoute  Route                            `json:"-"`
	SidebarHidden bool                             `json:"sidebar_hidden"`
	WindowFocused bool                             `json:"-"`
	Toasts        map[uuid.UUID]*ToastNotification `json:"-"`
	// set when a newer build was detected; cleared on dismiss
	UpdateAvailable string `json:"-"`
}

func NewUI() UI {
	return UI{
		CurrentRoute:  RouteChat,
		WindowFocused: true,
		Toasts:        make(map[uuid.UUID]*ToastNotification),
	}
}

func (u *UI) AddToast(title, content, icon string) uuid.UUID {
	id := uuid.New()
	u.Toasts[id] = &ToastNotification{
		Title:     title,
		Content:   content,
		Icon:      icon,
		Remaining: toastLifetime,
	}
	return id
}

// DecayToasts advances every toast's countdown, removing the expired ones.
// Returns whether anything changed.
func (u *UI) DecayToasts() bool {
	changed := false
	for id, t := range u.Toasts {
		t.Remaining--
		changed = true
		if t.Remaining <= 0 {
			delete(u.Toasts, id)
		}
	}
	return changed
}

// ResetToast restarts a toast's countdown, keeping it visible while the user
// hovers over it.
func (u *UI) ResetToast(id uuid.UUID) {
	if t, ok := u.Toasts[id]; ok {
		t.Remaining = toastLifetime
	}
}

func (u *UI) RemoveToast(id uuid.UUID) {
	delete(u.Toasts, id)
}

// Settings are the user preferences that persist across sessions.
type Settings struct {
	Theme     string  `json:"theme,omitempty"`
	Language  string  `json:"language"`
	FontScale float32 `json:"font_scale"`
}

func DefaultSettings() Settings {
	return Settings{
		Language:  "en-US",
		FontScale: 1.0,
	}
}
