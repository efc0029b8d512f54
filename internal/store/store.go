// Package store provides document-database access for all Inkwell entities
// and owns the aggregation core: denormalized counters, cascading deletes,
// like toggling, and paginated listing. Each store wraps the shared DB handle
// and exposes typed operations; authorization checks (author-or-admin) happen
// inside the operations, using the acting identity the gate resolved.
package store

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// containsFold reports whether s contains needle, ignoring case. Search
// filtering happens in memory: the embedded query engine does not evaluate
// regex filters, so substring matching cannot be pushed into the query.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(needle))
}

// slicePage cuts the requested page out of an already-filtered result set.
func slicePage[T any](items []T, opts ListOptions) []T {
	start := opts.skip()
	if start > int64(len(items)) {
		start = int64(len(items))
	}
	end := start + int64(opts.limit())
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	page := make([]T, 0, end-start)
	return append(page, items[start:end]...)
}

// Stores bundles the per-entity stores over one database handle.
type Stores struct {
	Users    *UserStore
	Posts    *PostStore
	Comments *CommentStore
}

// New creates the store set for the given database.
func New(db *database.DB) *Stores {
	return &Stores{
		Users:    NewUserStore(db),
		Posts:    NewPostStore(db),
		Comments: NewCommentStore(db),
	}
}

// loadAuthors fetches the public author summaries for a set of user ids in
// one query. Missing users (deleted accounts) are simply absent from the map.
func loadAuthors(ctx context.Context, db *database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.PublicAuthor, error) {
	authors := make(map[primitive.ObjectID]*models.PublicAuthor, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	csr, err := db.Collection(database.Users).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}

	var users []models.User
	if err := csr.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}

	for i := range users {
		authors[users[i].ID] = users[i].Public()
	}
	return authors, nil
}

// authorIDs collects the distinct author ids of a set of documents.
func authorIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
