package httpapi

import (
	"net/http"
	"strings"
)

// corsMiddleware applies the origin allowlist. Origins are compared with
// trailing slashes stripped, so "https://app.example" and
// "https://app.example/" are treated as the same origin. Requests without
// an Origin header (curl, same-origin) pass through untouched.
func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(s.allowedOrigins))
	for _, o := range s.allowedOrigins {
		allowed[normalizeOrigin(o)] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := allowed[normalizeOrigin(origin)]; !ok {
			errorJSON(w, http.StatusForbidden, "CORS error: Origin not allowed")
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(origin, "/")
}
