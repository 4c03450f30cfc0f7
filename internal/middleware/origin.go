package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"friday-chat/internal/metrics"
)

// Origins rejects browser requests whose Origin is not in allowed and adds
// CORS headers for the ones that are. Requests without an Origin header are
// not browser cross-origin calls and pass through. "*" allows every origin.
func Origins(allowed []string, m *metrics.Metrics) func(http.Handler) http.Handler {
	allowAll := false
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[strings.ToLower(o)] = true
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{
			RequestIDHeader,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		MaxAge: 300,
	})

	return func(next http.Handler) http.Handler {
		withCORS := corsHandler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !allowAll && !set[strings.ToLower(origin)] {
				m.RecordRejection("origin")
				writeError(w, http.StatusForbidden, "Origin not allowed",
					fmt.Sprintf("Origin %s is not permitted", origin))
				return
			}
			withCORS.ServeHTTP(w, r)
		})
	}
}
