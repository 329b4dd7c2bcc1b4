package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lunanest/storytime/internal/model"
)

var (
	ErrFolderNotFound = errors.New("folder not found")
)

type FolderRepository interface {
	Create(folder *model.Folder) error
	ByID(userID, folderID string) (*model.Folder, error)
	Folders(userID string) ([]*model.Folder, error)
	Count(userID string) (int, error)
	Update(folder *model.Folder) error
	Delete(userID, folderID string) error

	// AddStory is idempotent: adding an existing pair is a no-op.
	AddStory(folderID, storyID string, addedAt time.Time) error
	RemoveStory(folderID, storyID string) error
	Stories(folderID string) ([]*model.StoryListItem, error)
}

type folderRepository struct {
	db *sqlx.DB
}

func NewFolderRepository(db *sqlx.DB) FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) Create(folder *model.Folder) error {
	query := `INSERT INTO folders (id, user_id, name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.Description,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	return err
}

func (r *folderRepository) ByID(userID, folderID string) (*model.Folder, error) {
	folder := &model.Folder{}
	query := `SELECT * FROM folders WHERE id = $1 AND user_id = $2`

	err := r.db.Get(folder, query, folderID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrFolderNotFound
	}

	return folder, err
}

func (r *folderRepository) Folders(userID string) ([]*model.Folder, error) {
	var folders []*model.Folder
	query := `SELECT * FROM folders WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&folders, query, userID)
	if err != nil {
		return nil, err
	}

	return folders, nil
}

func (r *folderRepository) Count(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM folders WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

func (r *folderRepository) Update(folder *model.Folder) error {
	query := `UPDATE folders
	          SET name = $1, description = $2, updated_at = $3
	          WHERE id = $4 AND user_id = $5`

	result, err := r.db.Exec(query,
		folder.Name,
		folder.Description,
		time.Now(),
		folder.ID,
		folder.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFolderNotFound
	}

	return nil
}

func (r *folderRepository) Delete(userID, folderID string) error {
	query := `DELETE FROM folders WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, folderID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFolderNotFound
	}

	return nil
}

func (r *folderRepository) AddStory(folderID, storyID string, addedAt time.Time) error {
	query := `INSERT INTO folder_stories (folder_id, story_id, added_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (folder_id, story_id) DO NOTHING`

	_, err := r.db.Exec(query, folderID, storyID, addedAt)
	return err
}

func (r *folderRepository) RemoveStory(folderID, storyID string) error {
	query := `DELETE FROM folder_stories WHERE folder_id = $1 AND story_id = $2`
	_, err := r.db.Exec(query, folderID, storyID)
	return err
}

func (r *folderRepository) Stories(folderID string) ([]*model.StoryListItem, error) {
	var stories []*model.StoryListItem
	query := `SELECT s.id, s.title, s.age, s.length, s.created_at,
	                 EXISTS (SELECT 1 FROM audio_files a WHERE a.story_id = s.id) AS has_audio
	          FROM folder_stories fs
	          JOIN stories s ON s.id = fs.story_id
	          WHERE fs.folder_id = $1
	          ORDER BY fs.added_at ASC`

	err := r.db.Select(&stories, query, folderID)
	if err != nil {
		return nil, err
	}

	return stories, nil
}
