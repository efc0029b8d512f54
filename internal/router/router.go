// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Routes are grouped by entity, with authenticated and
// admin-only subgroups layered on the shared identity-loading chain.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/token"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(issuer *token.Issuer, limiter *middleware.RateLimiter, auth *handlers.Auth, posts *handlers.Posts, comments *handlers.Comments, users *handlers.Users) chi.Router {
	r := chi.NewRouter()

	// Global middleware: applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(middleware.Authenticate(issuer))

		r.Get("/health", healthHandler)

		// Auth + account self-service.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", auth.Me)
				r.Put("/update-profile", auth.UpdateProfile)
				r.Put("/change-password", auth.ChangePassword)
			})
		})

		// Posts.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Get("/featured", posts.Featured)
			r.Get("/author/{authorID}", posts.ByAuthor)
			r.Get("/{id}", posts.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", posts.Create)
				r.Put("/{id}", posts.Update)
				r.Delete("/{id}", posts.Delete)
				r.Post("/{id}/like", posts.Like)
			})
		})

		// Comments.
		r.Route("/comments", func(r chi.Router) {
			r.Get("/post/{postID}", comments.ListForPost)
			r.Get("/{id}", comments.Get)
			r.Get("/{id}/replies", comments.Replies)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", comments.Create)
				r.Put("/{id}", comments.Update)
				r.Delete("/{id}", comments.Delete)
				r.Post("/{id}/like", comments.Like)
			})
		})

		// Users.
		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.List)
			r.Get("/username/{username}", users.ByUsername)
			r.Get("/{id}", users.Get)
			r.Get("/{id}/stats", users.Stats)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Put("/{id}", users.AdminUpdate)
				r.Delete("/{id}", users.Delete)
			})
		})

		// Admin repair operations.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/posts/{id}/recount-comments", posts.RecountComments)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
