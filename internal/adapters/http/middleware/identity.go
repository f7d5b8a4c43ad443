package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDContextKey contextKey = "user_id"
)

// RequireIdentity extracts the caller identity from the X-User-ID header
// and stores it in the request context. Requests without a valid identity
// are rejected; there is no anonymous fallback.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))

		if userID == "" {
			respondError(w, http.StatusUnauthorized, "missing X-User-ID header")
			return
		}

		// Prevent injection attacks
		if !ValidUserID(userID) {
			log.Printf("HTTP 400: invalid user ID format: %q (path=%s)", userID, r.URL.Path)
			respondError(w, http.StatusBadRequest, "invalid user ID format")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// ValidUserID reports whether an identity is safe to pass through to
// LiveKit and log lines. The WebSocket subscribe endpoint applies the
// same rules to its user parameter.
func ValidUserID(userID string) bool {
	if userID == "" || len(userID) > 255 {
		return false
	}

	for _, ch := range userID {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '_' || ch == '.' || ch == '@') {
			return false
		}
	}

	return true
}
