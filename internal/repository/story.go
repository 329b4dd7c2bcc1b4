package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lunanest/storytime/internal/model"
)

var (
	ErrStoryNotFound = errors.New("story not found")
)

type StoryRepository interface {
	Create(story *model.Story) error
	ByID(userID, storyID string) (*model.Story, error)
	Stories(userID string) ([]*model.StoryListItem, error)
	CountCreatedSince(userID string, since time.Time) (int, error)
	Count(userID string) (int, error)
	Delete(userID, storyID string) error
}

type storyRepository struct {
	db *sqlx.DB
}

func NewStoryRepository(db *sqlx.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(story *model.Story) error {
	query := `INSERT INTO stories (id, user_id, title, story, age, length, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		story.ID,
		story.UserID,
		story.Title,
		story.Story,
		story.Age,
		story.Length,
		story.CreatedAt,
	)

	return err
}

func (r *storyRepository) ByID(userID, storyID string) (*model.Story, error) {
	story := &model.Story{}
	query := `SELECT * FROM stories WHERE id = $1 AND user_id = $2`

	err := r.db.Get(story, query, storyID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrStoryNotFound
	}

	return story, err
}

func (r *storyRepository) Stories(userID string) ([]*model.StoryListItem, error) {
	var stories []*model.StoryListItem
	query := `SELECT s.id, s.title, s.age, s.length, s.created_at,
	                 EXISTS (SELECT 1 FROM audio_files a WHERE a.story_id = s.id) AS has_audio
	          FROM stories s
	          WHERE s.user_id = $1
	          ORDER BY s.created_at DESC`

	err := r.db.Select(&stories, query, userID)
	if err != nil {
		return nil, err
	}

	return stories, nil
}

func (r *storyRepository) CountCreatedSince(userID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM stories WHERE user_id = $1 AND created_at >= $2`
	err := r.db.QueryRow(query, userID, since).Scan(&count)
	return count, err
}

func (r *storyRepository) Count(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM stories WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

func (r *storyRepository) Delete(userID, storyID string) error {
	query := `DELETE FROM stories WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, storyID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrStoryNotFound
	}

	return nil
}
