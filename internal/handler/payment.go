package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/lunanest/storytime/internal/ctxkeys"
	"github.com/lunanest/storytime/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	payments, err := h.paymentService.Payments(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

// Webhook receives payment provider events. It is the only unauthenticated
// POST route; authenticity comes from the signature check inside the service.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read webhook payload", "error", err)
		writeError(w, http.StatusBadRequest, "failed to read payload")
		return
	}
	defer r.Body.Close()

	err = h.paymentService.HandleWebhook(payload, r.Header)
	if err != nil {
		slog.Error("failed to handle webhook", "error", err)
		writeError(w, http.StatusBadRequest, "failed to process webhook")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
