package handler

import (
	"net/http"
	"time"

	"github.com/lunanest/storytime/internal/ctxkeys"
	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	sub, err := h.subscriptionService.Subscription(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"subscription": sub})
}

type subscriptionRequest struct {
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	Provider  string     `json:"provider"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func validPlan(plan string) bool {
	switch plan {
	case model.SubscriptionPlanFree, model.SubscriptionPlanPremium, model.SubscriptionPlanPro:
		return true
	}
	return false
}

// Create replaces the caller's subscription with the requested plan.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var req subscriptionRequest
	err := decodeBody(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validPlan(req.Plan) {
		writeError(w, http.StatusBadRequest, "unknown plan")
		return
	}

	sub, err := h.subscriptionService.Replace(identity.ID, req.Plan, req.ExpiresAt, req.Provider)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"subscription": sub})
}

func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var req subscriptionRequest
	err := decodeBody(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Plan != "" && !validPlan(req.Plan) {
		writeError(w, http.StatusBadRequest, "unknown plan")
		return
	}

	sub, err := h.subscriptionService.Update(identity.ID, req.Plan, req.Status, req.ExpiresAt)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"subscription": sub})
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	err := h.subscriptionService.Cancel(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "subscription cancelled"})
}

func (h *SubscriptionHandler) Limits(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	limits, err := h.subscriptionService.Limits(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, limits)
}
