// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Inkwell API. Handlers
// are grouped by concern (auth, posts, comments, users) and receive their
// dependencies through the handler struct. They translate HTTP to store
// calls and back; all domain rules live in the stores.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/apierr"
	"inkwell/internal/store"
)

// maxBodyBytes caps request bodies; the API carries text, not uploads.
const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return apierr.Validation("Invalid request body")
	}
	return nil
}

// idParam extracts an ObjectID path parameter; malformed ids are a
// validation failure, not a not-found.
func idParam(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apierr.Validation("Invalid id")
	}
	return id, nil
}

// listOptions reads the listing query parameters. Unparseable numbers fall
// back silently, matching the coercion done by the stores.
func listOptions(r *http.Request) store.ListOptions {
	q := r.URL.Query()
	return store.ListOptions{
		Page:     atoiOr(q.Get("page"), 0),
		Limit:    atoiOr(q.Get("limit"), 0),
		Sort:     q.Get("sort"),
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Author:   q.Get("author"),
		Status:   q.Get("status"),
	}
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
