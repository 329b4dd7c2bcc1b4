package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AccountRepository owns the multi-table writes that must happen together.
type AccountRepository interface {
	// PurgeUser deletes every row belonging to the user inside a single
	// transaction: stories (audio rows and folder memberships go with them
	// via ON DELETE CASCADE), folders, subscription, payment history and
	// preferences. Either all rows go or none do.
	PurgeUser(userID string) error
}

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) PurgeUser(userID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM stories WHERE user_id = $1`,
		`DELETE FROM folders WHERE user_id = $1`,
		`DELETE FROM subscriptions WHERE user_id = $1`,
		`DELETE FROM payment_history WHERE user_id = $1`,
		`DELETE FROM user_preferences WHERE user_id = $1`,
	}

	for _, stmt := range statements {
		_, err = tx.Exec(stmt, userID)
		if err != nil {
			return fmt.Errorf("failed to purge user data: %w", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}

	return nil
}
