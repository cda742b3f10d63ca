package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/digitbank/bankledger/internal/infrastructure/auth"
)

// ContextKey is the type for context keys.
type ContextKey string

// ActorContextKey is the context key for the acting principal.
const ActorContextKey ContextKey = "actor"

// Actor extracts the acting principal from a bearer token when one is
// present. Requests without a valid token proceed anonymously; the ledger
// attributes those to the system actor.
func Actor(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				claims, err := jwtManager.Verify(parts[1])
				if err == nil {
					ctx := context.WithValue(r.Context(), ActorContextKey, claims.Subject)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ActorFromContext returns the acting principal, or "" when the request was
// anonymous.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(ActorContextKey).(string)
	return actor
}
