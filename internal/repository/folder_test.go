package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunanest/storytime/internal/model"
)

func insertFolder(t *testing.T, repo FolderRepository, userID, name string) *model.Folder {
	t.Helper()

	now := time.Now()
	folder := &model.Folder{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(folder))

	return folder
}

func TestFolderRepository_AddStoryIsIdempotent(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	folders := NewFolderRepository(database)

	story := insertStory(t, stories, "user-1", "Filed", time.Now())
	folder := insertFolder(t, folders, "user-1", "Favorites")

	require.NoError(t, folders.AddStory(folder.ID, story.ID, time.Now()))
	require.NoError(t, folders.AddStory(folder.ID, story.ID, time.Now()))

	list, err := folders.Stories(folder.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "double add must keep a single membership row")
}

func TestFolderRepository_StoriesInAddOrder(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	folders := NewFolderRepository(database)

	first := insertStory(t, stories, "user-1", "First", time.Now())
	second := insertStory(t, stories, "user-1", "Second", time.Now())
	folder := insertFolder(t, folders, "user-1", "Bedtime")

	base := time.Now()
	require.NoError(t, folders.AddStory(folder.ID, second.ID, base))
	require.NoError(t, folders.AddStory(folder.ID, first.ID, base.Add(time.Second)))

	list, err := folders.Stories(folder.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestFolderRepository_DeleteFolderKeepsStories(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	folders := NewFolderRepository(database)

	story := insertStory(t, stories, "user-1", "Keep Me", time.Now())
	folder := insertFolder(t, folders, "user-1", "Doomed")
	require.NoError(t, folders.AddStory(folder.ID, story.ID, time.Now()))

	require.NoError(t, folders.Delete("user-1", folder.ID))

	// Membership cascades away, the story itself stays
	_, err := stories.ByID("user-1", story.ID)
	assert.NoError(t, err)

	_, err = folders.ByID("user-1", folder.ID)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestFolderRepository_DeleteStoryRemovesMembership(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	folders := NewFolderRepository(database)

	story := insertStory(t, stories, "user-1", "Filed", time.Now())
	folder := insertFolder(t, folders, "user-1", "Favorites")
	require.NoError(t, folders.AddStory(folder.ID, story.ID, time.Now()))

	require.NoError(t, stories.Delete("user-1", story.ID))

	list, err := folders.Stories(folder.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFolderRepository_UpdateScopedToOwner(t *testing.T) {
	database := newTestDB(t)
	folders := NewFolderRepository(database)

	folder := insertFolder(t, folders, "user-1", "Original")

	folder.UserID = "user-2"
	folder.Name = "Hijacked"
	assert.ErrorIs(t, folders.Update(folder), ErrFolderNotFound)

	got, err := folders.ByID("user-1", folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Name)
}
