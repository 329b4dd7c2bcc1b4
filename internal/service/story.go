package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/repository"
	"github.com/lunanest/storytime/internal/storage"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrStoryRequired = errors.New("story text is required")
	ErrVoiceRequired = errors.New("voice is required")
)

type StoryService struct {
	storyRepo           repository.StoryRepository
	audioRepo           repository.AudioRepository
	subscriptionService *SubscriptionService
	storage             storage.Storage
}

func NewStoryService(
	storyRepo repository.StoryRepository,
	audioRepo repository.AudioRepository,
	subscriptionService *SubscriptionService,
	storage storage.Storage,
) *StoryService {
	return &StoryService{
		storyRepo:           storyRepo,
		audioRepo:           audioRepo,
		subscriptionService: subscriptionService,
		storage:             storage,
	}
}

func (s *StoryService) Stories(userID string) ([]*model.StoryListItem, error) {
	stories, err := s.storyRepo.Stories(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	if stories == nil {
		stories = []*model.StoryListItem{}
	}

	return stories, nil
}

// Story returns the story and a voice → URL map of its narrations.
func (s *StoryService) Story(userID, storyID string) (*model.Story, map[string]string, error) {
	story, err := s.storyRepo.ByID(userID, storyID)
	if err != nil {
		return nil, nil, err
	}

	files, err := s.audioRepo.ByStory(storyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load audio files: %w", err)
	}

	audio := make(map[string]string, len(files))
	for _, f := range files {
		audio[f.Voice] = f.URL
	}

	return story, audio, nil
}

// Create persists a new story after checking the plan's monthly quota.
func (s *StoryService) Create(userID, title, text string, age *int, length *string) (*model.Story, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrStoryRequired
	}

	err := s.subscriptionService.CheckStoryQuota(userID)
	if err != nil {
		return nil, err
	}

	story := &model.Story{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Story:     text,
		Age:       age,
		Length:    length,
		CreatedAt: time.Now(),
	}

	err = s.storyRepo.Create(story)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	return story, nil
}

// AttachAudio stores the uploaded narration and upserts its row, replacing
// any previous audio for the same (story, voice) pair. The replaced file is
// removed from storage best-effort after the row update succeeds.
func (s *StoryService) AttachAudio(userID, storyID, voice string, audio io.Reader, ext string) (*model.AudioFile, error) {
	if strings.TrimSpace(voice) == "" {
		return nil, ErrVoiceRequired
	}

	// Ownership check before any writes
	_, err := s.storyRepo.ByID(userID, storyID)
	if err != nil {
		return nil, err
	}

	previous, err := s.audioRepo.ByStoryAndVoice(storyID, voice)
	if err != nil && !errors.Is(err, repository.ErrAudioNotFound) {
		return nil, fmt.Errorf("failed to check existing audio: %w", err)
	}

	if ext == "" {
		ext = ".mp3"
	}
	storagePath := path.Join("audio", storyID, voice+"-"+uuid.New().String()+ext)

	err = s.storage.Save(storagePath, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to save audio file: %w", err)
	}

	file := &model.AudioFile{
		ID:        uuid.New().String(),
		StoryID:   storyID,
		Voice:     voice,
		URL:       s.storage.URL(storagePath),
		CreatedAt: time.Now(),
	}

	err = s.audioRepo.Upsert(file)
	if err != nil {
		// Row update failed: clean up the file we just wrote
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Error("failed to clean up audio file after db error", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to save audio record: %w", err)
	}

	if previous != nil {
		s.removeStoredFile(previous.URL)
	}

	return file, nil
}

// Delete removes the story row (audio rows cascade) and then attempts file
// removal. File removal failures are logged, not propagated.
func (s *StoryService) Delete(userID, storyID string) error {
	// Collect file URLs before the rows disappear. Ownership is enforced by
	// the delete query itself; a non-owned id deletes nothing.
	files, err := s.audioRepo.ByStory(storyID)
	if err != nil {
		return fmt.Errorf("failed to load audio files: %w", err)
	}

	err = s.storyRepo.Delete(userID, storyID)
	if err != nil {
		return err
	}

	for _, f := range files {
		s.removeStoredFile(f.URL)
	}

	return nil
}

// removeStoredFile best-effort deletes a stored file given its public URL.
func (s *StoryService) removeStoredFile(url string) {
	storagePath, ok := strings.CutPrefix(url, "/uploads/")
	if !ok {
		// S3 or external URL: nothing to do locally
		return
	}

	err := s.storage.Delete(storagePath)
	if err != nil {
		slog.Warn("failed to delete audio file from storage", "error", err, "path", storagePath)
	}
}
