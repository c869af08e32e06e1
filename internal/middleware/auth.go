// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenValidator checks a session token and returns the user id it carries.
type TokenValidator interface {
	ValidateToken(token string) (uint, error)
}

// OptionalAuth resolves an Authorization bearer token to a user id in the
// request context. Authentication never blocks a request here: a missing or
// invalid token simply leaves the request anonymous, and anonymous requests
// see the guest data set.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := validator.ValidateToken(token)
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token, continuing as guest: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the authenticated user id, or nil for guest requests.
func UserIDFrom(ctx context.Context) *uint {
	if userID, ok := ctx.Value(userIDKey).(uint); ok {
		return &userID
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
