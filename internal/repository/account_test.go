package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunanest/storytime/internal/model"
)

func TestAccountRepository_PurgeUserRemovesEverything(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	audio := NewAudioRepository(database)
	folders := NewFolderRepository(database)
	subs := NewSubscriptionRepository(database)
	payments := NewPaymentRepository(database)
	prefs := NewPreferencesRepository(database)
	account := NewAccountRepository(database)

	story := insertStory(t, stories, "user-1", "Doomed", time.Now())
	insertAudio(t, audio, story.ID, "amelia", "/uploads/audio/a.mp3")
	folder := insertFolder(t, folders, "user-1", "Doomed Folder")
	require.NoError(t, folders.AddStory(folder.ID, story.ID, time.Now()))
	require.NoError(t, subs.Upsert(newSubscription("user-1", model.SubscriptionPlanPremium)))
	require.NoError(t, payments.Create(&model.Payment{
		ID:        uuid.New().String(),
		UserID:    "user-1",
		PlanID:    model.SubscriptionPlanPremium,
		Amount:    999,
		Currency:  "usd",
		CreatedAt: time.Now(),
	}))
	p := model.DefaultPreferences("user-1")
	p.UpdatedAt = time.Now()
	require.NoError(t, prefs.Upsert(p))

	// A second user's data must survive the purge untouched
	keep := insertStory(t, stories, "user-2", "Survivor", time.Now())

	require.NoError(t, account.PurgeUser("user-1"))

	for table, want := range map[string]int{
		"stories":          1, // user-2's survivor
		"audio_files":      0,
		"folders":          0,
		"folder_stories":   0,
		"subscriptions":    0,
		"payment_history":  0,
		"user_preferences": 0,
	} {
		var count int
		err := database.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, want, count, "table %s", table)
	}

	_, err := stories.ByID("user-2", keep.ID)
	assert.NoError(t, err)
}

func TestAccountRepository_PurgeUnknownUserIsNoOp(t *testing.T) {
	database := newTestDB(t)
	stories := NewStoryRepository(database)
	account := NewAccountRepository(database)

	insertStory(t, stories, "user-1", "Keep", time.Now())

	require.NoError(t, account.PurgeUser("nobody"))

	count, err := stories.Count("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
