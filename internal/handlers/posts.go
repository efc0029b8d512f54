// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/response"
	"inkwell/internal/store"
)

// Posts groups the post handlers. lists may be a nil cache.
type Posts struct {
	posts *store.PostStore
	lists *cache.ListCache
}

// NewPosts creates the posts handler group.
func NewPosts(posts *store.PostStore, lists *cache.ListCache) *Posts {
	return &Posts{posts: posts, lists: lists}
}

// List returns a filtered, paginated page of posts. The listing endpoint is
// public and identity-independent, so whole response bodies are cached under
// the canonical query string.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := cache.ListKey(r.URL.Query())

	if body, ok := h.lists.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	page, err := h.posts.List(ctx, listOptions(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	body, err := json.Marshal(response.Envelope{
		Success:   true,
		Message:   "Posts retrieved successfully",
		Data:      page,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	h.lists.Set(ctx, key, body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Featured returns up to five featured published posts.
func (h *Posts) Featured(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Featured(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Featured posts retrieved successfully", posts)
}

// ByAuthor returns an author's published posts, newest first.
func (h *Posts) ByAuthor(w http.ResponseWriter, r *http.Request) {
	author, err := idParam(r, "authorID")
	if err != nil {
		response.Error(w, err)
		return
	}

	page, err := h.posts.ListByAuthor(r.Context(), author, listOptions(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Posts retrieved successfully", page)
}

// Get returns one post with its author and comment thread, counting the view
// unless the requester is the author.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	post, err := h.posts.GetWithView(r.Context(), id, middleware.ActorFromCtx(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Post retrieved successfully", post)
}

type postCreateRequest struct {
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Excerpt       string            `json:"excerpt"`
	FeaturedImage string            `json:"featuredImage"`
	Categories    []string          `json:"categories"`
	Tags          []string          `json:"tags"`
	Status        models.PostStatus `json:"status"`
	IsFeatured    bool              `json:"isFeatured"`
}

// Create inserts a new post authored by the authenticated user.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	var req postCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validatePostCreate(req.Title, req.Content, req.Excerpt); err != nil {
		response.Error(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), actor.ID, store.PostInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Categories:    req.Categories,
		Tags:          req.Tags,
		Status:        req.Status,
		IsFeatured:    req.IsFeatured,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	h.lists.Invalidate(r.Context())
	response.Created(w, "Post created successfully", post)
}

type postUpdateRequest struct {
	Title         *string            `json:"title"`
	Content       *string            `json:"content"`
	Excerpt       *string            `json:"excerpt"`
	FeaturedImage *string            `json:"featuredImage"`
	Categories    []string           `json:"categories"`
	Tags          []string           `json:"tags"`
	Status        *models.PostStatus `json:"status"`
	IsFeatured    *bool              `json:"isFeatured"`
}

// Update modifies a post; author-or-admin enforced by the store.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req postUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validatePostUpdate(req.Title, req.Content, req.Excerpt); err != nil {
		response.Error(w, err)
		return
	}

	post, err := h.posts.Update(r.Context(), id, actor, store.PostUpdate{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Categories:    req.Categories,
		Tags:          req.Tags,
		Status:        req.Status,
		IsFeatured:    req.IsFeatured,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	h.lists.Invalidate(r.Context())
	response.OK(w, "Post updated successfully", post)
}

// Delete removes a post and its comments; author-or-admin enforced by the
// store.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.posts.Delete(r.Context(), id, actor); err != nil {
		response.Error(w, err)
		return
	}

	h.lists.Invalidate(r.Context())
	response.OK(w, "Post deleted successfully", nil)
}

// Like toggles the authenticated user's like on a post.
func (h *Posts) Like(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	count, liked, err := h.posts.ToggleLike(r.Context(), id, actor.ID)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.lists.Invalidate(r.Context())
	message := "Post unliked successfully"
	if liked {
		message = "Post liked successfully"
	}
	response.OK(w, message, map[string]any{
		"likes":   count,
		"isLiked": liked,
	})
}

// RecountComments recomputes a post's denormalized comment counter from the
// comments collection. Admin-only repair endpoint; safe to run repeatedly.
func (h *Posts) RecountComments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	count, err := h.posts.RecomputeCommentsCount(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	slog.Info("comments counter repaired", "post", id.Hex(), "count", count)
	response.OK(w, "Comments count recomputed successfully", map[string]any{
		"commentsCount": count,
	})
}
