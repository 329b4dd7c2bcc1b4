package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/repository"
)

var (
	ErrStoryLimitReached = errors.New("monthly story limit reached")
)

// Limits reports the caller's plan quota and current month usage.
type Limits struct {
	Plan      string `json:"plan"`
	Limit     int    `json:"limit"` // -1 for unlimited
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"` // -1 for unlimited
}

type SubscriptionService struct {
	repo      repository.SubscriptionRepository
	storyRepo repository.StoryRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository, storyRepo repository.StoryRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo, storyRepo: storyRepo}
}

// Subscription returns the user's subscription, lazily creating a free/active
// row on first read.
func (s *SubscriptionService) Subscription(userID string) (*model.Subscription, error) {
	sub, err := s.repo.ByUserID(userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	now := time.Now()
	sub = &model.Subscription{
		ID:        uuid.New().String(),
		UserID:    userID,
		PlanID:    model.SubscriptionPlanFree,
		Status:    model.SubscriptionStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Upsert(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create free subscription: %w", err)
	}

	return sub, nil
}

// Replace upserts the subscription for the user regardless of prior state.
func (s *SubscriptionService) Replace(userID, planID string, expiresAt *time.Time, provider string) (*model.Subscription, error) {
	now := time.Now()
	sub := &model.Subscription{
		ID:        uuid.New().String(),
		UserID:    userID,
		PlanID:    planID,
		Status:    model.SubscriptionStatusActive,
		ExpiresAt: expiresAt,
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Upsert(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to replace subscription: %w", err)
	}

	return s.Subscription(userID)
}

// Update changes plan and/or status on an existing subscription.
func (s *SubscriptionService) Update(userID, planID, status string, expiresAt *time.Time) (*model.Subscription, error) {
	sub, err := s.Subscription(userID)
	if err != nil {
		return nil, err
	}

	if planID != "" {
		sub.PlanID = planID
	}
	if status != "" {
		sub.Status = status
	}
	if expiresAt != nil {
		sub.ExpiresAt = expiresAt
	}
	sub.UpdatedAt = time.Now()

	err = s.repo.Update(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	return sub, nil
}

// Cancel marks the subscription cancelled. Fails with
// repository.ErrSubscriptionNotFound when no row exists.
func (s *SubscriptionService) Cancel(userID string) error {
	err := s.repo.Cancel(userID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return err
		}
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}

	return nil
}

// Limits reports quota usage for the current calendar month.
func (s *SubscriptionService) Limits(userID string) (*Limits, error) {
	sub, err := s.Subscription(userID)
	if err != nil {
		return nil, err
	}

	used, err := s.storyRepo.CountCreatedSince(userID, monthStart(time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}

	limit := sub.StoryLimit()
	remaining := -1
	if limit >= 0 {
		remaining = limit - used
		if remaining < 0 {
			remaining = 0
		}
	}

	return &Limits{
		Plan:      sub.PlanID,
		Limit:     limit,
		Used:      used,
		Remaining: remaining,
	}, nil
}

// CheckStoryQuota returns ErrStoryLimitReached when the plan's monthly quota
// is exhausted.
func (s *SubscriptionService) CheckStoryQuota(userID string) error {
	limits, err := s.Limits(userID)
	if err != nil {
		return err
	}

	if limits.Limit >= 0 && limits.Used >= limits.Limit {
		return ErrStoryLimitReached
	}

	return nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
