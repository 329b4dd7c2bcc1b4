package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/repository"
	"github.com/lunanest/storytime/internal/storage"
)

// Stats summarizes a user's account for the dashboard.
type Stats struct {
	Stories          int `json:"stories"`
	AudioFiles       int `json:"audioFiles"`
	Folders          int `json:"folders"`
	StoriesThisMonth int `json:"storiesThisMonth"`
}

// Export is the full JSON export of a user's data.
type Export struct {
	ExportedAt   time.Time           `json:"exportedAt"`
	Email        string              `json:"email"`
	Stories      []*model.Story      `json:"stories"`
	AudioFiles   []*model.AudioFile  `json:"audioFiles"`
	Folders      []*model.Folder     `json:"folders"`
	Subscription *model.Subscription `json:"subscription"`
	Payments     []*model.Payment    `json:"payments"`
	Preferences  *model.Preferences  `json:"preferences,omitempty"`
}

type AccountService struct {
	accountRepo         repository.AccountRepository
	storyRepo           repository.StoryRepository
	audioRepo           repository.AudioRepository
	folderRepo          repository.FolderRepository
	paymentRepo         repository.PaymentRepository
	preferencesRepo     repository.PreferencesRepository
	subscriptionService *SubscriptionService
	storage             storage.Storage
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	storyRepo repository.StoryRepository,
	audioRepo repository.AudioRepository,
	folderRepo repository.FolderRepository,
	paymentRepo repository.PaymentRepository,
	preferencesRepo repository.PreferencesRepository,
	subscriptionService *SubscriptionService,
	storage storage.Storage,
) *AccountService {
	return &AccountService{
		accountRepo:         accountRepo,
		storyRepo:           storyRepo,
		audioRepo:           audioRepo,
		folderRepo:          folderRepo,
		paymentRepo:         paymentRepo,
		preferencesRepo:     preferencesRepo,
		subscriptionService: subscriptionService,
		storage:             storage,
	}
}

// DeleteAccount removes every row belonging to the user atomically, then
// attempts removal of stored audio files. File removal is best-effort and
// happens only after the transaction commits.
func (s *AccountService) DeleteAccount(userID string) error {
	files, err := s.audioRepo.ByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to collect audio files: %w", err)
	}

	err = s.accountRepo.PurgeUser(userID)
	if err != nil {
		return fmt.Errorf("failed to delete account data: %w", err)
	}

	for _, f := range files {
		storagePath, ok := strings.CutPrefix(f.URL, "/uploads/")
		if !ok {
			continue
		}
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Warn("failed to delete audio file during account deletion",
				"error", delErr, "path", storagePath, "user_id", userID)
		}
	}

	slog.Info("account deleted", "user_id", userID, "audio_files", len(files))

	return nil
}

func (s *AccountService) Stats(userID string) (*Stats, error) {
	stories, err := s.storyRepo.Count(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}

	audio, err := s.audioRepo.Count(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count audio files: %w", err)
	}

	folders, err := s.folderRepo.Count(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count folders: %w", err)
	}

	limits, err := s.subscriptionService.Limits(userID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Stories:          stories,
		AudioFiles:       audio,
		Folders:          folders,
		StoriesThisMonth: limits.Used,
	}, nil
}

// Preferences returns the user's stored preferences, falling back to the
// defaults when none have been saved yet.
func (s *AccountService) Preferences(userID string) (*model.Preferences, error) {
	prefs, err := s.preferencesRepo.ByUserID(userID)
	if errors.Is(err, repository.ErrPreferencesNotFound) {
		return model.DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return prefs, nil
}

func (s *AccountService) UpdatePreferences(userID string, prefs *model.Preferences) (*model.Preferences, error) {
	prefs.UserID = userID
	prefs.UpdatedAt = time.Now()

	err := s.preferencesRepo.Upsert(prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	return prefs, nil
}

func (s *AccountService) Export(identity *model.Identity) (*Export, error) {
	userID := identity.ID

	list, err := s.storyRepo.Stories(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	stories := make([]*model.Story, 0, len(list))
	for _, item := range list {
		story, err := s.storyRepo.ByID(userID, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load story %s: %w", item.ID, err)
		}
		stories = append(stories, story)
	}

	audio, err := s.audioRepo.ByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audio files: %w", err)
	}
	if audio == nil {
		audio = []*model.AudioFile{}
	}

	folders, err := s.folderRepo.Folders(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	if folders == nil {
		folders = []*model.Folder{}
	}

	sub, err := s.subscriptionService.Subscription(userID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	if payments == nil {
		payments = []*model.Payment{}
	}

	prefs, err := s.preferencesRepo.ByUserID(userID)
	if err != nil && !errors.Is(err, repository.ErrPreferencesNotFound) {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return &Export{
		ExportedAt:   time.Now(),
		Email:        identity.Email,
		Stories:      stories,
		AudioFiles:   audio,
		Folders:      folders,
		Subscription: sub,
		Payments:     payments,
		Preferences:  prefs,
	}, nil
}
