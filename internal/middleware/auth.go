package middleware

import (
	"context"
	"net/http"

	"livemart-be/internal/auth"
	"livemart-be/internal/transport"
)

type contextKey string

const claimsKey contextKey = "tokenClaims"

// RequireRole rejects requests whose bearer token is absent, invalid, or
// carries a different role claim than the route group expects. A role
// mismatch is treated as unauthenticated, matching the token contract.
func RequireRole(secret, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				transport.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			claims, err := auth.ParseToken(secret, tokenStr)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			if claims.Role != role || claims.Email() == "" {
				transport.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified token claims set by RequireRole.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
