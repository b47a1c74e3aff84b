// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"tavola/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the verified session claims.
	SessionKey contextKey = "session"
)

// LoadSession verifies the session cookie and stores its claims in the
// request context. Downstream handlers can access them via SessionFromCtx().
// This middleware does NOT enforce authentication. An absent or invalid
// cookie simply leaves the request anonymous.
func LoadSession(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.Configured() {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := m.FromRequest(r)
			if err == nil {
				ctx := context.WithValue(r.Context(), SessionKey, claims)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns 401 unless a valid admin session was loaded.
// Must be applied after LoadSession in the middleware chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			jsonError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session claims from the request context.
// Returns nil if no session is loaded (caller is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Claims {
	claims, _ := ctx.Value(SessionKey).(*session.Claims)
	return claims
}
