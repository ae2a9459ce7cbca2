package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/benvon/virality-checker/internal/models"
	"go.uber.org/zap"
)

// ErrorHandler recovers panics and answers with the relay's JSON error body
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// Log panic details server-side but don't expose to client
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					writeError(w, http.StatusInternalServerError, "Internal server error", models.CodeInternal, logger)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeError sends {"success":false,"error":message,"code":code}
func writeError(w http.ResponseWriter, status int, message, code string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := models.AnalyzeResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil && logger != nil {
		logger.Error("failed_to_encode_error_response",
			zap.Error(err),
			zap.Int("status_code", status),
		)
	}
}
