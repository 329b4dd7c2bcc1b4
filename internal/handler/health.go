package handler

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	appName string
	started time.Time
}

func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{appName: appName, started: time.Now()}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    h.appName,
		"message": h.appName + " API is running",
	})
}
