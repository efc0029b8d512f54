// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"inkwell/internal/apierr"
	"inkwell/internal/models"
	"inkwell/internal/response"
	"inkwell/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// actorKey is the context key for the resolved acting identity.
	actorKey contextKey = "actor"
)

// Authenticate resolves the acting identity from the Authorization header or
// the token cookie and stores it in the request context. It does NOT enforce
// authentication: requests without a valid token proceed as anonymous.
func Authenticate(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				if c, err := r.Cookie(token.CookieName); err == nil {
					raw = c.Value
				}
			}

			if raw != "" {
				if actor, err := issuer.Verify(raw); err == nil {
					ctx := context.WithValue(r.Context(), actorKey, actor)
					r = r.WithContext(ctx)
				}
				// Invalid tokens are treated as anonymous, not rejected;
				// enforcement happens in RequireAuth.
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ActorFromCtx returns the acting identity stored by Authenticate, or nil for
// anonymous requests.
func ActorFromCtx(ctx context.Context) *models.Actor {
	actor, _ := ctx.Value(actorKey).(*models.Actor)
	return actor
}

// RequireAuth rejects anonymous requests with a 401 envelope.
// Must be applied after Authenticate in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ActorFromCtx(r.Context()) == nil {
			response.Error(w, apierr.Unauthorized("Not authorized, please log in"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose identity lacks the admin role.
// Must be applied after Authenticate; anonymous requests get 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := ActorFromCtx(r.Context())
		if actor == nil {
			response.Error(w, apierr.Unauthorized("Not authorized, please log in"))
			return
		}
		if !actor.IsAdmin() {
			response.Error(w, apierr.Forbidden("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
