package model

import "time"

type Story struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Title     string    `db:"title" json:"title"`
	Story     string    `db:"story" json:"story"`
	Age       *int      `db:"age" json:"age,omitempty"`
	Length    *string   `db:"length" json:"length,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// StoryListItem is the list representation: full text omitted, audio presence
// flagged so the client can show a speaker badge without a second request.
type StoryListItem struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Age       *int      `db:"age" json:"age,omitempty"`
	Length    *string   `db:"length" json:"length,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	HasAudio  bool      `db:"has_audio" json:"hasAudio"`
}
