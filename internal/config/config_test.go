package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.General.DataDir == "" {
		t.Fatal("data dir should have a default")
	}
	if cfg.General.Theme != "" || cfg.General.Language != "" || cfg.General.FontScale != 0 {
		t.Fatal("display overrides should default unset")
	}
	if !cfg.AudioVideo.MessageSounds || !cfg.AudioVideo.MediaSounds {
		t.Fatal("sounds should default on")
	}
	if !cfg.Privacy.SendTyping {
		t.Fatal("typing indicators should default on")
	}
	if cfg.Developer.DevMode {
		t.Fatal("dev mode should default off")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("UPLINK_DATA_DIR", "/tmp/uplink-test")
	t.Setenv("UPLINK_FONT_SCALE", "1.25")
	t.Setenv("UPLINK_MESSAGE_SOUNDS", "false")
	t.Setenv("UPLINK_USERNAME", "tester")

	cfg := Load()
	if cfg.General.DataDir != "/tmp/uplink-test" {
		t.Fatalf("data dir not read: %q", cfg.General.DataDir)
	}
	if cfg.StatePath() != "/tmp/uplink-test/state.json" {
		t.Fatalf("state path wrong: %q", cfg.StatePath())
	}
	if cfg.General.FontScale != 1.25 {
		t.Fatalf("font scale not read: %v", cfg.General.FontScale)
	}
	if cfg.AudioVideo.MessageSounds {
		t.Fatal("message sounds should be off")
	}
	if cfg.Developer.Username != "tester" {
		t.Fatalf("username not read: %q", cfg.Developer.Username)
	}
}

func TestLoadRejectsBadFontScale(t *testing.T) {
	t.Setenv("UPLINK_FONT_SCALE", "-2")
	cfg := Load()
	if cfg.General.FontScale != 0 {
		t.Fatalf("bad font scale should read as unset, got %v", cfg.General.FontScale)
	}
}
