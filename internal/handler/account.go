package handler

import (
	"log/slog"
	"net/http"

	"github.com/lunanest/storytime/internal/ctxkeys"
	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/service"
)

type AccountHandler struct {
	accountService      *service.AccountService
	subscriptionService *service.SubscriptionService
}

func NewAccountHandler(accountService *service.AccountService, subscriptionService *service.SubscriptionService) *AccountHandler {
	return &AccountHandler{
		accountService:      accountService,
		subscriptionService: subscriptionService,
	}
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	err := h.accountService.DeleteAccount(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	slog.Info("account deletion completed", "user_id", identity.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (h *AccountHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	stats, err := h.accountService.Stats(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Profile reports the verified identity claims plus the current plan. There
// is no user table; identity lives in the token.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	sub, err := h.subscriptionService.Subscription(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":    identity.ID,
		"email": identity.Email,
		"plan":  sub.PlanID,
	})
}

func (h *AccountHandler) Preferences(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	prefs, err := h.accountService.Preferences(identity.ID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"preferences": prefs})
}

func (h *AccountHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	var req model.Preferences
	err := decodeBody(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs, err := h.accountService.UpdatePreferences(identity.ID, &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"preferences": prefs})
}

func (h *AccountHandler) Export(w http.ResponseWriter, r *http.Request) {
	identity := ctxkeys.Identity(r.Context())

	export, err := h.accountService.Export(identity)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="storytime-export.json"`)
	writeJSON(w, http.StatusOK, export)
}
