package handlers

import (
	"net/http"

	"friday-chat/internal/models"
)

type HealthHandler struct {
	apiKey string
}

func NewHealthHandler(apiKey string) *HealthHandler {
	return &HealthHandler{apiKey: apiKey}
}

// Health is the liveness probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy"})
}

// Diagnostics reports whether the backend credential is configured.
func (h *HealthHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.DiagnosticsResponse{
		Status:        "Server is running",
		APIKeyPresent: h.apiKey != "",
		APIKeyLength:  len(h.apiKey),
	})
}
