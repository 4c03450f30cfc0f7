package middleware

import (
	"encoding/json"
	"net/http"

	"friday-chat/internal/models"
)

func writeError(w http.ResponseWriter, status int, label, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: label, Details: details})
}
