package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"parklane/internal/identity"
)

type contextKey string

const identityKey contextKey = "identity"

// OptionalIdentity resolves a Bearer token into a caller identity when one is
// presented. A missing Authorization header passes through as an anonymous
// caller; a malformed or expired token is rejected with 401 so a client never
// silently downgrades to guest.
func OptionalIdentity(resolver *identity.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := authHeader
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}

			caller, err := resolver.ResolveIdentity(tokenStr)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), caller)))
		})
	}
}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, caller *identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, caller)
}

// IdentityFromContext retrieves the caller identity, nil for anonymous.
func IdentityFromContext(ctx context.Context) *identity.Identity {
	val := ctx.Value(identityKey)
	if val == nil {
		return nil
	}
	caller, ok := val.(*identity.Identity)
	if !ok {
		return nil
	}
	return caller
}
