package middleware

import (
	"context"
	"net/http"
	"strings"

	"aura-backend/internal/auth"
	"aura-backend/internal/transport"
)

// Identity is the authenticated caller, extracted once from the bearer token
// and passed through the request context instead of ambient global state.
type Identity struct {
	UserID string
	Role   auth.Role
}

type identityKey struct{}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey{})
	if v == nil {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Authenticate verifies the Authorization bearer token and stores the caller's
// identity in the request context.
func Authenticate(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "auth not configured", nil)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				transport.WriteError(w, http.StatusUnauthorized, "missing authorization header", nil)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
			if token == "" {
				transport.WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			claims, err := manager.Parse(token)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "invalid token", nil)
				return
			}
			role, ok := auth.ParseRole(claims.Role)
			if !ok {
				transport.WriteError(w, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			identity := Identity{UserID: claims.UserID, Role: role}
			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require gates a route on a single permission from the role table.
func Require(perm auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !identity.Role.Can(perm) {
				transport.WriteError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
