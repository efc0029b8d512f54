// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/response"
	"inkwell/internal/store"
)

// recentPostsLimit caps the posts embedded in a username profile lookup.
const recentPostsLimit = 10

// Users groups the public profile and admin user-management handlers.
type Users struct {
	users *store.UserStore
	posts *store.PostStore
}

// NewUsers creates the users handler group.
func NewUsers(users *store.UserStore, posts *store.PostStore) *Users {
	return &Users{users: users, posts: posts}
}

// List returns a page of users, optionally filtered by a username/email
// search.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.List(r.Context(), listOptions(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Users retrieved successfully", page)
}

// Get returns a user profile with their published-post count.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	count, err := h.users.PublishedPostsCount(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, "User retrieved successfully", map[string]any{
		"user":       user,
		"postsCount": count,
	})
}

// ByUsername returns a user profile with their recent published posts.
func (h *Users) ByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.users.FindByUsername(r.Context(), username)
	if err != nil {
		response.Error(w, err)
		return
	}

	posts, err := h.posts.ListByAuthor(r.Context(), user.ID, store.ListOptions{Limit: recentPostsLimit})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, "User retrieved successfully", map[string]any{
		"user":  user,
		"posts": posts.Data,
	})
}

// Stats returns a user's aggregated publication activity.
func (h *Users) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	stats, err := h.users.Stats(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "User stats retrieved successfully", stats)
}

type adminUserRequest struct {
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Bio        string      `json:"bio"`
	Role       models.Role `json:"role"`
	IsVerified *bool       `json:"isVerified"`
}

// AdminUpdate lets an admin change account fields including role.
func (h *Users) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req adminUserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateProfile(req.Username, req.Email); err != nil {
		response.Error(w, err)
		return
	}

	user, err := h.users.AdminUpdate(r.Context(), id, req.Username, req.Email, req.Bio, req.Role, req.IsVerified)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "User updated successfully", user)
}

// Delete removes a user and cascades their posts and those posts' comments.
// Admin-only; admins cannot delete themselves.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.users.Delete(r.Context(), id, actor); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "User deleted successfully", nil)
}
