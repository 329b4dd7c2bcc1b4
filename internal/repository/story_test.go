package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryRepository_ListNewestFirstWithAudioFlag(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	audio := NewAudioRepository(database)

	old := insertStory(t, stories, "user-1", "Old Story", time.Now().Add(-time.Hour))
	recent := insertStory(t, stories, "user-1", "New Story", time.Now())
	insertStory(t, stories, "user-2", "Other User", time.Now())

	insertAudio(t, audio, recent.ID, "amelia", "/uploads/audio/a.mp3")

	list, err := stories.Stories("user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, recent.ID, list[0].ID)
	assert.True(t, list[0].HasAudio)
	assert.Equal(t, old.ID, list[1].ID)
	assert.False(t, list[1].HasAudio)
}

func TestStoryRepository_ByIDScopedToOwner(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)

	story := insertStory(t, stories, "user-1", "Mine", time.Now())

	got, err := stories.ByID("user-1", story.ID)
	require.NoError(t, err)
	assert.Equal(t, story.Title, got.Title)

	_, err = stories.ByID("user-2", story.ID)
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestStoryRepository_DeleteNotOwnedIsNotFound(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)

	story := insertStory(t, stories, "user-1", "Mine", time.Now())

	err := stories.Delete("user-2", story.ID)
	assert.ErrorIs(t, err, ErrStoryNotFound)

	// Row untouched
	_, err = stories.ByID("user-1", story.ID)
	assert.NoError(t, err)

	err = stories.Delete("user-1", "no-such-id")
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestStoryRepository_DeleteCascadesAudio(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	audio := NewAudioRepository(database)

	story := insertStory(t, stories, "user-1", "Narrated", time.Now())
	insertAudio(t, audio, story.ID, "amelia", "/uploads/audio/a.mp3")
	insertAudio(t, audio, story.ID, "george", "/uploads/audio/b.mp3")

	require.NoError(t, stories.Delete("user-1", story.ID))

	files, err := audio.ByStory(story.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestStoryRepository_CountCreatedSince(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)

	now := time.Now()
	insertStory(t, stories, "user-1", "Last Month", now.AddDate(0, -1, 0))
	insertStory(t, stories, "user-1", "This Month A", now.Add(-time.Hour))
	insertStory(t, stories, "user-1", "This Month B", now)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count, err := stories.CountCreatedSince("user-1", monthStart)
	require.NoError(t, err)

	// The hour-old story can fall before month start on the 1st
	if now.Add(-time.Hour).Before(monthStart) {
		assert.Equal(t, 1, count)
	} else {
		assert.Equal(t, 2, count)
	}
}
