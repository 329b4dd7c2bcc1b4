package model

import "time"

// Preferences holds per-user defaults for the client. One row per user,
// written with upsert semantics.
type Preferences struct {
	UserID        string    `db:"user_id" json:"-"`
	Theme         string    `db:"theme" json:"theme"`
	Language      string    `db:"language" json:"language"`
	Notifications bool      `db:"notifications" json:"notifications"`
	PlaybackVoice string    `db:"playback_voice" json:"playbackVoice"`
	PlaybackSpeed float64   `db:"playback_speed" json:"playbackSpeed"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:        userID,
		Theme:         "light",
		Language:      "en",
		Notifications: true,
		PlaybackSpeed: 1.0,
	}
}
