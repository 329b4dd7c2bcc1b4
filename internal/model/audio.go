package model

import "time"

// AudioFile is one narrated rendition of a story. At most one row exists per
// (story, voice) pair; re-uploading the same voice replaces the row.
type AudioFile struct {
	ID        string    `db:"id" json:"id"`
	StoryID   string    `db:"story_id" json:"storyId"`
	Voice     string    `db:"voice" json:"voice"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
