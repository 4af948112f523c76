package models

type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceAway    Presence = "away"
	PresenceBusy    Presence = "busy"
	PresenceOffline Presence = "offline"
)

type Platform string

const (
	PlatformDesktop Platform = "desktop"
	PlatformMobile  Platform = "mobile"
	PlatformUnknown Platform = "unknown"
)

// Identity represents a peer, keyed by its DID. Records are created on first
// observation and updated in place; they are never deleted, only superseded.
type Identity struct {
	DID            string   `json:"did"`
	Username       string   `json:"username"`
	Suffix         string   `json:"suffix"` // short discriminator shown after the username
	StatusMessage  string   `json:"status_message"`
	Presence       Presence `json:"presence"`
	Platform       Platform `json:"platform"`
	ProfilePicture string   `json:"profile_picture"` // data URI, fetched lazily
	ProfileBanner  string   `json:"profile_banner"`
}

// PlaceholderIdentity builds a stand-in record for a DID that has not been
// resolved yet. The username is a shortened form of the DID text.
func PlaceholderIdentity(did string) Identity {
	username := did
	if len(did) > 14 {
		username = did[8:11] + "..." + did[len(did)-3:]
	}
	return Identity{
		DID:      did,
		Username: username,
		Presence: PresenceOffline,
		Platform: PlatformUnknown,
	}
}

// Supersede merges a newer record into i, keeping the lazily-fetched image
// fields when the update does not carry them.
func (i *Identity) Supersede(newer Identity) {
	if newer.ProfilePicture == "" {
		newer.ProfilePicture = i.ProfilePicture
	}
	if newer.ProfileBanner == "" {
		newer.ProfileBanner = i.ProfileBanner
	}
	*i = newer
}

func (i Identity) Short() string {
	if i.Suffix == "" {
		return i.Username
	}
	return i.Username + "#" + i.Suffix
}
