package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

type General struct {
	// where the state snapshot and downloads live
	DataDir string `env:"UPLINK_DATA_DIR" env-default:""`
	// display overrides; zero values mean unset, the persisted settings
	// document owns the defaults
	Theme string `env:"UPLINK_THEME" env-default:""`
	// BCP 47 tag
	Language  string  `env:"UPLINK_LANGUAGE" env-default:""`
	FontScale float32 `env:"UPLINK_FONT_SCALE" env-default:"0"`
}

type Privacy struct {
	// share typing indicators with peers
	SendTyping bool `env:"UPLINK_SEND_TYPING" env-default:"true"`
	// share read state with peers
	SendReceipts bool `env:"UPLINK_SEND_RECEIPTS" env-default:"true"`
}

type AudioVideo struct {
	InputDevice  string `env:"UPLINK_INPUT_DEVICE" env-default:""`
	OutputDevice string `env:"UPLINK_OUTPUT_DEVICE" env-default:""`
	// interface sounds for sent and received messages
	MessageSounds bool `env:"UPLINK_MESSAGE_SOUNDS" env-default:"true"`
	MediaSounds   bool `env:"UPLINK_MEDIA_SOUNDS" env-default:"true"`
}

type Notifications struct {
	Enabled        bool `env:"UPLINK_NOTIFICATIONS" env-default:"true"`
	FriendsSounds  bool `env:"UPLINK_FRIENDS_NOTIFICATIONS" env-default:"true"`
	MessagesSounds bool `env:"UPLINK_MESSAGES_NOTIFICATIONS" env-default:"true"`
	SettingsSounds bool `env:"UPLINK_SETTINGS_NOTIFICATIONS" env-default:"false"`
}

type Developer struct {
	// verbose logging of every command and event
	DevMode bool `env:"UPLINK_DEV_MODE" env-default:"false"`
	// local identity used by the in-process runtime
	DID      string `env:"UPLINK_DID" env-default:"did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK"`
	Username string `env:"UPLINK_USERNAME" env-default:"uplink-user"`
}

type Config struct {
	General       General
	Privacy       Privacy
	AudioVideo    AudioVideo
	Notifications Notifications
	Developer     Developer
}

// Load reads configuration from the environment. It never fails hard: an
// unreadable value is logged and the defaults stand.
func Load() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Printf("read config: %v", err)
	}
	if cfg.General.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.General.DataDir = filepath.Join(home, ".uplink")
	}
	if cfg.General.FontScale < 0 {
		log.Printf("ignoring font scale %v", cfg.General.FontScale)
		cfg.General.FontScale = 0
	}
	return &cfg
}

// StatePath is the location of the persisted state snapshot.
func (c *Config) StatePath() string {
	return filepath.Join(c.General.DataDir, "state.json")
}
