package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// ExtensionOriginPrefixes are browser-extension schemes that may always call the relay
var ExtensionOriginPrefixes = []string{"chrome-extension://", "moz-extension://", "safari-web-extension://"}

// OriginAllowed reports whether origin may call the relay. Extension origins are always
// allowed; an empty allow-list allows every origin.
func OriginAllowed(origin string, allowed []string) bool {
	for _, prefix := range ExtensionOriginPrefixes {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// CORS wraps rs/cors with the relay's origin policy
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(origin, allowedOrigins)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler
}
