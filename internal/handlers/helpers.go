package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/benvon/virality-checker/internal/models"
)

// maxErrorMessageLength bounds error text sent to clients
const maxErrorMessageLength = 200

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sanitizeErrorMessage bounds error text so upstream detail cannot flood the client
func sanitizeErrorMessage(message string) string {
	runes := []rune(message)
	if len(runes) > maxErrorMessageLength {
		return string(runes[:maxErrorMessageLength]) + "..."
	}
	return message
}

// respondJSONError sends {"success":false,"error":message,"code":code}
func respondJSONError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, models.AnalyzeResponse{
		Success: false,
		Error:   sanitizeErrorMessage(message),
		Code:    code,
	})
}
