package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lunanest/storytime/internal/model"
)

var (
	ErrPreferencesNotFound = errors.New("preferences not found")
)

type PreferencesRepository interface {
	ByUserID(userID string) (*model.Preferences, error)
	Upsert(prefs *model.Preferences) error
}

type preferencesRepository struct {
	db *sqlx.DB
}

func NewPreferencesRepository(db *sqlx.DB) PreferencesRepository {
	return &preferencesRepository{db: db}
}

func (r *preferencesRepository) ByUserID(userID string) (*model.Preferences, error) {
	prefs := &model.Preferences{}
	query := `SELECT * FROM user_preferences WHERE user_id = $1`

	err := r.db.Get(prefs, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrPreferencesNotFound
	}

	return prefs, err
}

func (r *preferencesRepository) Upsert(prefs *model.Preferences) error {
	query := `INSERT INTO user_preferences (user_id, theme, language, notifications, playback_voice, playback_speed, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (user_id) DO UPDATE SET
	              theme = excluded.theme,
	              language = excluded.language,
	              notifications = excluded.notifications,
	              playback_voice = excluded.playback_voice,
	              playback_speed = excluded.playback_speed,
	              updated_at = excluded.updated_at`

	_, err := r.db.Exec(query,
		prefs.UserID,
		prefs.Theme,
		prefs.Language,
		prefs.Notifications,
		prefs.PlaybackVoice,
		prefs.PlaybackSpeed,
		prefs.UpdatedAt,
	)

	return err
}
