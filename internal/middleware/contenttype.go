package middleware

import (
	"net/http"
	"strings"

	"github.com/benvon/virality-checker/internal/models"
)

// ContentType requires application/json on requests with bodies
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut {
			contentType := r.Header.Get("Content-Type")

			if contentType == "" {
				writeError(w, http.StatusBadRequest, "Content-Type header is required", models.CodeInvalidRequest, nil)
				return
			}

			// application/json, optionally with a charset
			if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
				writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", models.CodeInvalidRequest, nil)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
