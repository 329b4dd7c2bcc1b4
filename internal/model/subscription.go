package model

import "time"

type Subscription struct {
	ID                     string     `db:"id" json:"id"`
	UserID                 string     `db:"user_id" json:"-"`
	PlanID                 string     `db:"plan_id" json:"plan"`
	Status                 string     `db:"status" json:"status"`
	ExpiresAt              *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
	Provider               string     `db:"provider" json:"provider,omitempty"`
	ProviderCustomerID     *string    `db:"provider_customer_id" json:"-"`
	ProviderSubscriptionID *string    `db:"provider_subscription_id" json:"-"`
	CreatedAt              time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updatedAt"`
}

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)

// Plan keys are lowercase everywhere, including the default.
const (
	SubscriptionPlanFree    = "free"
	SubscriptionPlanPremium = "premium"
	SubscriptionPlanPro     = "pro"
)

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// StoryLimit returns the monthly story-creation quota for this plan.
// Returns -1 for unlimited.
func (s *Subscription) StoryLimit() int {
	if !s.IsActive() {
		return 5 // free tier default
	}

	switch s.PlanID {
	case SubscriptionPlanFree:
		return 5
	case SubscriptionPlanPremium:
		return 50
	case SubscriptionPlanPro:
		return -1 // unlimited
	default:
		return 5
	}
}
