package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lunanest/storytime/internal/model"
)

var (
	ErrAudioNotFound = errors.New("audio file not found")
)

type AudioRepository interface {
	// Upsert inserts the audio row, replacing any existing row for the same
	// (story, voice) pair.
	Upsert(audio *model.AudioFile) error
	ByStoryAndVoice(storyID, voice string) (*model.AudioFile, error)
	ByStory(storyID string) ([]*model.AudioFile, error)
	ByUser(userID string) ([]*model.AudioFile, error)
	Count(userID string) (int, error)
}

type audioRepository struct {
	db *sqlx.DB
}

func NewAudioRepository(db *sqlx.DB) AudioRepository {
	return &audioRepository{db: db}
}

func (r *audioRepository) Upsert(audio *model.AudioFile) error {
	query := `INSERT INTO audio_files (id, story_id, voice, url, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (story_id, voice)
	          DO UPDATE SET id = excluded.id, url = excluded.url, created_at = excluded.created_at`

	_, err := r.db.Exec(query,
		audio.ID,
		audio.StoryID,
		audio.Voice,
		audio.URL,
		audio.CreatedAt,
	)

	return err
}

func (r *audioRepository) ByStoryAndVoice(storyID, voice string) (*model.AudioFile, error) {
	audio := &model.AudioFile{}
	query := `SELECT * FROM audio_files WHERE story_id = $1 AND voice = $2`

	err := r.db.Get(audio, query, storyID, voice)
	if err == sql.ErrNoRows {
		return nil, ErrAudioNotFound
	}

	return audio, err
}

func (r *audioRepository) ByStory(storyID string) ([]*model.AudioFile, error) {
	var files []*model.AudioFile
	query := `SELECT * FROM audio_files WHERE story_id = $1 ORDER BY voice ASC`

	err := r.db.Select(&files, query, storyID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *audioRepository) ByUser(userID string) ([]*model.AudioFile, error) {
	var files []*model.AudioFile
	query := `SELECT a.* FROM audio_files a
	          JOIN stories s ON s.id = a.story_id
	          WHERE s.user_id = $1`

	err := r.db.Select(&files, query, userID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *audioRepository) Count(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM audio_files a
	          JOIN stories s ON s.id = a.story_id
	          WHERE s.user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}
