package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/repository"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

type PaymentService struct {
	paymentRepo         repository.PaymentRepository
	subscriptionService *SubscriptionService
	webhookSecret       string
}

func NewPaymentService(paymentRepo repository.PaymentRepository, subscriptionService *SubscriptionService, webhookSecret string) *PaymentService {
	return &PaymentService{
		paymentRepo:         paymentRepo,
		subscriptionService: subscriptionService,
		webhookSecret:       webhookSecret,
	}
}

func (s *PaymentService) Payments(userID string) ([]*model.Payment, error) {
	payments, err := s.paymentRepo.ByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	if payments == nil {
		payments = []*model.Payment{}
	}

	return payments, nil
}

// HandleWebhook verifies and processes a payment provider event. Events with
// an unknown type are logged and accepted so the provider stops retrying.
func (s *PaymentService) HandleWebhook(payload []byte, headers http.Header) error {
	if s.webhookSecret == "" {
		slog.Warn("no payment webhook secret configured, skipping signature verification")
	} else {
		wh, err := standardwebhooks.NewWebhookRaw([]byte(s.webhookSecret))
		if err != nil {
			return fmt.Errorf("failed to create webhook verifier: %w", err)
		}

		httpHeaders := http.Header{}
		httpHeaders.Set("webhook-id", headers.Get("webhook-id"))
		httpHeaders.Set("webhook-timestamp", headers.Get("webhook-timestamp"))
		httpHeaders.Set("webhook-signature", headers.Get("webhook-signature"))

		err = wh.Verify(payload, httpHeaders)
		if err != nil {
			return fmt.Errorf("invalid webhook signature: %w", err)
		}
	}

	var event struct {
		ID   string          `json:"id"`
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	err := json.Unmarshal(payload, &event)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	slog.Info("payment webhook received", "event_type", event.Type)

	switch event.Type {
	case "payment.succeeded", "order.paid":
		return s.handlePaymentSucceeded(event.ID, event.Data)
	case "subscription.created", "subscription.updated":
		return s.handleSubscriptionChanged(event.Data)
	case "subscription.canceled", "subscription.revoked":
		return s.handleSubscriptionEnded(event.Data)
	default:
		slog.Warn("payment webhook unknown event type", "event_type", event.Type)
		return nil
	}
}

type webhookSubscription struct {
	UserID    string     `json:"user_id"`
	PlanID    string     `json:"plan_id"`
	Provider  string     `json:"provider"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (s *PaymentService) handlePaymentSucceeded(eventID string, data json.RawMessage) error {
	var order struct {
		UserID   string `json:"user_id"`
		PlanID   string `json:"plan_id"`
		Amount   int    `json:"amount"`
		Currency string `json:"currency"`
		Provider string `json:"provider"`
	}

	err := json.Unmarshal(data, &order)
	if err != nil {
		return fmt.Errorf("failed to parse payment event: %w", err)
	}
	if order.UserID == "" {
		slog.Warn("payment event missing user_id, ignoring")
		return nil
	}

	var providerEventID *string
	if eventID != "" {
		providerEventID = &eventID
	}

	payment := &model.Payment{
		ID:              uuid.New().String(),
		UserID:          order.UserID,
		PlanID:          order.PlanID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Provider:        order.Provider,
		ProviderEventID: providerEventID,
		CreatedAt:       time.Now(),
	}

	err = s.paymentRepo.Create(payment)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	slog.Info("payment recorded", "user_id", order.UserID, "plan_id", order.PlanID, "amount", order.Amount)

	return nil
}

func (s *PaymentService) handleSubscriptionChanged(data json.RawMessage) error {
	var sub webhookSubscription
	err := json.Unmarshal(data, &sub)
	if err != nil {
		return fmt.Errorf("failed to parse subscription event: %w", err)
	}
	if sub.UserID == "" {
		slog.Warn("subscription event missing user_id, ignoring")
		return nil
	}

	_, err = s.subscriptionService.Replace(sub.UserID, sub.PlanID, sub.ExpiresAt, sub.Provider)
	if err != nil {
		return fmt.Errorf("failed to apply subscription event: %w", err)
	}

	return nil
}

func (s *PaymentService) handleSubscriptionEnded(data json.RawMessage) error {
	var sub webhookSubscription
	err := json.Unmarshal(data, &sub)
	if err != nil {
		return fmt.Errorf("failed to parse subscription event: %w", err)
	}
	if sub.UserID == "" {
		slog.Warn("subscription event missing user_id, ignoring")
		return nil
	}

	err = s.subscriptionService.Cancel(sub.UserID)
	if err != nil {
		slog.Warn("subscription cancel from webhook failed", "error", err, "user_id", sub.UserID)
	}

	return nil
}
