// Bearer token authentication for the replayed API endpoints.

package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ofwtools/ofwmock/pkg/httputil"
)

// exemptPaths never require authentication, regardless of strict mode.
var exemptPaths = map[string]struct{}{
	PathHealth:       {},
	PathReload:       {},
	PathLocalStorage: {},
}

// authMiddleware enforces the bearer token check on protected endpoints.
//
// In strict mode the Authorization header must carry a bearer token equal
// to the configured one. With strict mode off every request passes, token
// or no token; the mock exists to replay data, not to guard it.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.StrictAuth {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := exemptPaths[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			httputil.WriteUnauthorized(w, "missing_token", "Authorization: Bearer <token> header required")
			return
		}

		// Constant-time comparison to prevent timing attacks.
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
			httputil.WriteUnauthorized(w, "invalid_token", "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimPrefix(auth, prefix)
	if token == "" {
		return "", false
	}
	return token, true
}
