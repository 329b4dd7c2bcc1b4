package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioRepository_UpsertReplacesSameVoice(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	audio := NewAudioRepository(database)

	story := insertStory(t, stories, "user-1", "Narrated", time.Now())

	insertAudio(t, audio, story.ID, "amelia", "/uploads/audio/first.mp3")
	second := insertAudio(t, audio, story.ID, "amelia", "/uploads/audio/second.mp3")

	files, err := audio.ByStory(story.ID)
	require.NoError(t, err)
	require.Len(t, files, 1, "same (story, voice) pair must hold a single row")
	assert.Equal(t, "/uploads/audio/second.mp3", files[0].URL)
	assert.Equal(t, second.ID, files[0].ID, "replace must keep the id returned to the uploader")

	got, err := audio.ByStoryAndVoice(story.ID, "amelia")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/audio/second.mp3", got.URL)
}

func TestAudioRepository_DistinctVoicesCoexist(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	audio := NewAudioRepository(database)

	story := insertStory(t, stories, "user-1", "Narrated", time.Now())

	insertAudio(t, audio, story.ID, "amelia", "/uploads/audio/a.mp3")
	insertAudio(t, audio, story.ID, "george", "/uploads/audio/g.mp3")

	files, err := audio.ByStory(story.ID)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestAudioRepository_ByStoryAndVoiceNotFound(t *testing.T) {
	database := newTestDB(t)
	audio := NewAudioRepository(database)

	_, err := audio.ByStoryAndVoice("missing", "amelia")
	assert.ErrorIs(t, err, ErrAudioNotFound)
}

func TestAudioRepository_ByUserJoinsOwnership(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	audio := NewAudioRepository(database)

	mine := insertStory(t, stories, "user-1", "Mine", time.Now())
	other := insertStory(t, stories, "user-2", "Other", time.Now())
	insertAudio(t, audio, mine.ID, "amelia", "/uploads/audio/a.mp3")
	insertAudio(t, audio, other.ID, "amelia", "/uploads/audio/b.mp3")

	files, err := audio.ByUser("user-1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, mine.ID, files[0].StoryID)

	count, err := audio.Count("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
