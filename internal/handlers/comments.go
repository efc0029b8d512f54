// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/apierr"
	"inkwell/internal/middleware"
	"inkwell/internal/response"
	"inkwell/internal/store"
)

// Comments groups the comment handlers.
type Comments struct {
	comments *store.CommentStore
}

// NewComments creates the comments handler group.
func NewComments(comments *store.CommentStore) *Comments {
	return &Comments{comments: comments}
}

// ListForPost returns a page of a post's top-level comments with replies.
func (h *Comments) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r, "postID")
	if err != nil {
		response.Error(w, err)
		return
	}

	page, err := h.comments.ListForPost(r.Context(), postID, listOptions(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Comments retrieved successfully", page)
}

// Get returns one comment.
func (h *Comments) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	comment, err := h.comments.FindByID(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Comment retrieved successfully", comment)
}

// Replies returns the direct replies of a comment, oldest first.
func (h *Comments) Replies(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	replies, err := h.comments.Replies(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Replies retrieved successfully", replies)
}

type commentCreateRequest struct {
	Content         string `json:"content"`
	PostID          string `json:"postId"`
	ParentCommentID string `json:"parentCommentId"`
}

// Create adds a comment to a post, optionally as a reply.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	var req commentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	var fe fieldErrors
	if err := validateCommentContent(req.Content); err != nil {
		fe = append(fe, apierr.From(err).Fields...)
	}
	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		fe.add("postId", "A valid post id is required")
	}
	var parent *primitive.ObjectID
	if req.ParentCommentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentCommentID)
		if err != nil {
			fe.add("parentCommentId", "Parent comment id must be valid")
		} else {
			parent = &parentID
		}
	}
	if err := fe.err(); err != nil {
		response.Error(w, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), postID, actor.ID, req.Content, parent)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, "Comment created successfully", comment)
}

type commentUpdateRequest struct {
	Content string `json:"content"`
}

// Update edits a comment's content; author-or-admin enforced by the store.
func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var req commentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateCommentContent(req.Content); err != nil {
		response.Error(w, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), id, actor, req.Content)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Comment updated successfully", comment)
}

// Delete removes a comment and its replies; author-or-admin enforced by the
// store.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.comments.Delete(r.Context(), id, actor); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, "Comment deleted successfully", nil)
}

// Like toggles the authenticated user's like on a comment.
func (h *Comments) Like(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	count, liked, err := h.comments.ToggleLike(r.Context(), id, actor.ID)
	if err != nil {
		response.Error(w, err)
		return
	}

	message := "Comment unliked successfully"
	if liked {
		message = "Comment liked successfully"
	}
	response.OK(w, message, map[string]any{
		"likes":   count,
		"isLiked": liked,
	})
}
