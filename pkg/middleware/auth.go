package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtutil "github.com/Dias221467/Habit_Tracker/pkg/jwt"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token claims in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtutil.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				logger.Log.WithError(err).Warn("Rejected invalid token")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

// WithUser returns a copy of ctx carrying the authenticated user's claims.
func WithUser(ctx context.Context, claims *jwtutil.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

// GetUserFromContext returns the claims stored by AuthMiddleware, or nil.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(userContextKey).(*jwtutil.Claims)
	return claims
}
