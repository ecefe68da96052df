package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/smartrentsystem/backend/internal/domain/providers"
	"github.com/smartrentsystem/backend/internal/infrastructure/observability"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFromContext returns the authenticated user id, if any
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID stores an authenticated user id in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// stores the caller's user id in the request context otherwise
func RequireAuth(verifier providers.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				observability.LoggerFromContext(r.Context()).Debug().Err(err).Msg("Rejected bearer token")
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
