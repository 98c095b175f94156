// CORS middleware for the replayed API endpoints.

package server

import (
	"net/http"
	"strings"
)

// corsMiddleware wraps a handler with CORS handling for the configured
// allowed origins.
type corsMiddleware struct {
	handler http.Handler
	origins []string
}

func newCORSMiddleware(handler http.Handler, origins []string) *corsMiddleware {
	return &corsMiddleware{handler: handler, origins: origins}
}

// allowOrigin returns the Access-Control-Allow-Origin value for the given
// request origin, or "" when the origin is not allowed.
func (m *corsMiddleware) allowOrigin(origin string) string {
	for _, allowed := range m.origins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// ServeHTTP implements the http.Handler interface.
func (m *corsMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	allow := m.allowOrigin(origin)

	if allow != "" {
		w.Header().Set("Access-Control-Allow-Origin", allow)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, ofw-client, ofw-version")
		w.Header().Set("Access-Control-Max-Age", "86400")
	}

	if r.Method == http.MethodOptions {
		if allow != "" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusForbidden)
		}
		return
	}

	m.handler.ServeHTTP(w, r)
}
