package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/repository"
)

var (
	ErrFolderNameRequired = errors.New("folder name is required")
)

type FolderService struct {
	folderRepo repository.FolderRepository
	storyRepo  repository.StoryRepository
}

func NewFolderService(folderRepo repository.FolderRepository, storyRepo repository.StoryRepository) *FolderService {
	return &FolderService{
		folderRepo: folderRepo,
		storyRepo:  storyRepo,
	}
}

func (s *FolderService) Folders(userID string) ([]*model.Folder, error) {
	folders, err := s.folderRepo.Folders(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	if folders == nil {
		folders = []*model.Folder{}
	}

	return folders, nil
}

func (s *FolderService) ByID(userID, folderID string) (*model.Folder, error) {
	return s.folderRepo.ByID(userID, folderID)
}

func (s *FolderService) Create(userID, name, description string) (*model.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrFolderNameRequired
	}

	now := time.Now()
	folder := &model.Folder{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.folderRepo.Create(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return folder, nil
}

func (s *FolderService) Update(userID, folderID, name, description string) (*model.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrFolderNameRequired
	}

	folder, err := s.folderRepo.ByID(userID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = name
	folder.Description = description

	err = s.folderRepo.Update(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}

	return folder, nil
}

func (s *FolderService) Delete(userID, folderID string) error {
	return s.folderRepo.Delete(userID, folderID)
}

// AddStory adds a story to a folder. Both must belong to the caller.
// Adding the same pair twice is a no-op.
func (s *FolderService) AddStory(userID, folderID, storyID string) error {
	_, err := s.folderRepo.ByID(userID, folderID)
	if err != nil {
		return err
	}

	_, err = s.storyRepo.ByID(userID, storyID)
	if err != nil {
		return err
	}

	err = s.folderRepo.AddStory(folderID, storyID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add story to folder: %w", err)
	}

	return nil
}

func (s *FolderService) RemoveStory(userID, folderID, storyID string) error {
	_, err := s.folderRepo.ByID(userID, folderID)
	if err != nil {
		return err
	}

	err = s.folderRepo.RemoveStory(folderID, storyID)
	if err != nil {
		return fmt.Errorf("failed to remove story from folder: %w", err)
	}

	return nil
}

// Stories lists a folder's stories in add order.
func (s *FolderService) Stories(userID, folderID string) ([]*model.StoryListItem, error) {
	_, err := s.folderRepo.ByID(userID, folderID)
	if err != nil {
		return nil, err
	}

	stories, err := s.folderRepo.Stories(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder stories: %w", err)
	}
	if stories == nil {
		stories = []*model.StoryListItem{}
	}

	return stories, nil
}
