package middleware

import (
	"net/http"

	logpkg "github.com/benvon/virality-checker/internal/logger"
	"github.com/benvon/virality-checker/internal/request"
	"github.com/google/uuid"
)

// RequestID propagates X-Request-ID, generating a UUID when the caller sent none
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := logpkg.SanitizeRequestID(r.Header.Get(request.RequestIDHeader))
		if id == "" || len(id) > logpkg.MaxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(request.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(request.WithRequestID(r.Context(), id)))
	})
}
