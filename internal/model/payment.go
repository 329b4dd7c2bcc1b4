package model

import "time"

// Payment is one charge recorded from the payment provider's webhook.
// The table is append-only; rows are removed only with the whole account.
type Payment struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"-"`
	PlanID          string    `db:"plan_id" json:"plan"`
	Amount          int       `db:"amount" json:"amount"` // cents
	Currency        string    `db:"currency" json:"currency"`
	Provider        string    `db:"provider" json:"provider,omitempty"`
	ProviderEventID *string   `db:"provider_event_id" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}
