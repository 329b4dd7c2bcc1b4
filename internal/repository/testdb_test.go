package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/lunanest/storytime/internal/db"
	"github.com/lunanest/storytime/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"

	database, err := db.Init("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

func insertStory(t *testing.T, repo StoryRepository, userID, title string, createdAt time.Time) *model.Story {
	t.Helper()

	age := 6
	story := &model.Story{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Story:     "Once upon a time...",
		Age:       &age,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(story))

	return story
}

func insertAudio(t *testing.T, repo AudioRepository, storyID, voice, url string) *model.AudioFile {
	t.Helper()

	audio := &model.AudioFile{
		ID:        uuid.New().String(),
		StoryID:   storyID,
		Voice:     voice,
		URL:       url,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(audio))

	return audio
}
