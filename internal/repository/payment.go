package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lunanest/storytime/internal/model"
)

type PaymentRepository interface {
	Create(payment *model.Payment) error
	ByUser(userID string) ([]*model.Payment, error)
}

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *model.Payment) error {
	query := `INSERT INTO payment_history (id, user_id, plan_id, amount, currency, provider, provider_event_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		payment.ID,
		payment.UserID,
		payment.PlanID,
		payment.Amount,
		payment.Currency,
		payment.Provider,
		payment.ProviderEventID,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) ByUser(userID string) ([]*model.Payment, error) {
	var payments []*model.Payment
	query := `SELECT * FROM payment_history WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&payments, query, userID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
