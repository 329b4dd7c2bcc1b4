package model

import "time"

type Folder struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"-"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// FolderStory joins folders and stories many-to-many. Adding an existing pair
// is a no-op; listing follows add order.
type FolderStory struct {
	FolderID string    `db:"folder_id" json:"folderId"`
	StoryID  string    `db:"story_id" json:"storyId"`
	AddedAt  time.Time `db:"added_at" json:"addedAt"`
}
