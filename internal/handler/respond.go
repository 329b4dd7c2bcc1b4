package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lunanest/storytime/internal/repository"
	"github.com/lunanest/storytime/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serviceError maps service and repository errors onto HTTP responses.
// Unrecognized errors become 500 with a generic message.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrStoryNotFound):
		writeError(w, http.StatusNotFound, "story not found")
	case errors.Is(err, repository.ErrFolderNotFound):
		writeError(w, http.StatusNotFound, "folder not found")
	case errors.Is(err, repository.ErrAudioNotFound):
		writeError(w, http.StatusNotFound, "audio not found")
	case errors.Is(err, repository.ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, "no subscription found")
	case errors.Is(err, service.ErrStoryLimitReached):
		writeError(w, http.StatusForbidden, "monthly story limit reached, upgrade your plan to create more stories")
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrStoryRequired),
		errors.Is(err, service.ErrVoiceRequired),
		errors.Is(err, service.ErrFolderNameRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
