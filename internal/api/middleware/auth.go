package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/taflgame/internal/api/apierr"
	"github.com/mcoot/taflgame/internal/services/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// LegacyTokenHeader is the header older clients send the token in
const LegacyTokenHeader = "authenticationToken"

// Authenticator validates bearer tokens
type Authenticator interface {
	Authenticate(token string) (*session.Session, error)
}

// Auth creates authentication middleware. Requests without a valid token
// never reach the handler, so the engine is untouched.
func Auth(sessions Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			sess, err := sessions.Authenticate(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	// Fall back to the legacy header
	return strings.TrimSpace(r.Header.Get(LegacyTokenHeader))
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}
