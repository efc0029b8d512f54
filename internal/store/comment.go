// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/apierr"
	"inkwell/internal/database"
	"inkwell/internal/models"
)

// CommentStore handles all comment-related database operations and keeps the
// posts' commentsCount counter in step with inserts and deletes.
type CommentStore struct {
	db *database.DB
}

// NewCommentStore creates a new CommentStore with the given database handle.
func NewCommentStore(db *database.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a comment on a post, optionally as a reply to an existing
// comment, and increments the post's comment counter. The comment itself is
// the source of truth; if the counter bump fails after the insert, the
// failure is logged and the created comment is still returned.
func (s *CommentStore) Create(ctx context.Context, postID, author primitive.ObjectID, content string, parent *primitive.ObjectID) (*models.Comment, error) {
	n, err := s.db.Collection(database.Posts).CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if n == 0 {
		return nil, apierr.NotFound("Post not found")
	}

	if parent != nil {
		n, err := s.db.Collection(database.Comments).CountDocuments(ctx, bson.M{"_id": *parent})
		if err != nil {
			return nil, fmt.Errorf("check parent comment: %w", err)
		}
		if n == 0 {
			return nil, apierr.NotFound("Parent comment not found")
		}
	}

	now := time.Now().UTC()
	comment := &models.Comment{
		ID:            primitive.NewObjectID(),
		Content:       content,
		Post:          postID,
		Author:        author,
		ParentComment: parent,
		Likes:         []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.db.Collection(database.Comments).InsertOne(ctx, comment); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	_, err = s.db.Collection(database.Posts).UpdateOne(ctx,
		bson.M{"_id": postID}, bson.M{"$inc": bson.M{"commentsCount": 1}})
	if err != nil {
		slog.Error("comment counter increment failed", "post", postID.Hex(), "error", err)
	}

	if err := populateCommentAuthors(ctx, s.db, []*models.Comment{comment}); err != nil {
		return nil, err
	}
	return comment, nil
}

// FindByID retrieves a comment by id.
func (s *CommentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.Collection(database.Comments).FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.NotFound("Comment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &comment, nil
}

// ListForPost returns a page of a post's top-level comments, newest first,
// each carrying its replies oldest first. Authors are populated on both
// levels. The post itself is not checked; an unknown id yields an empty page.
func (s *CommentStore) ListForPost(ctx context.Context, postID primitive.ObjectID, opts ListOptions) (*Page[models.Comment], error) {
	coll := s.db.Collection(database.Comments)
	filter := bson.M{"post": postID, "parentComment": nil}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	csr, err := coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(opts.skip()).
		SetLimit(int64(opts.limit())))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := []models.Comment{}
	if err := csr.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	if err := attachReplies(ctx, s.db, comments); err != nil {
		return nil, err
	}

	return &Page[models.Comment]{
		Data:       comments,
		Pagination: newPagination(total, opts.page(), opts.limit()),
	}, nil
}

// Replies returns all direct replies of a comment, oldest first.
func (s *CommentStore) Replies(ctx context.Context, id primitive.ObjectID) ([]models.Comment, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	csr, err := s.db.Collection(database.Comments).Find(ctx,
		bson.M{"parentComment": id},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	replies := []models.Comment{}
	if err := csr.All(ctx, &replies); err != nil {
		return nil, fmt.Errorf("decode replies: %w", err)
	}
	if err := populateSliceAuthors(ctx, s.db, replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// Update edits a comment's content and marks it edited. Only the author or
// an admin may edit it; a missing comment reports not-found before any
// permission check.
func (s *CommentStore) Update(ctx context.Context, id primitive.ObjectID, actor *models.Actor, content string) (*models.Comment, error) {
	comment, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !comment.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, apierr.Forbidden("Not authorized to update this comment")
	}

	now := time.Now().UTC()
	_, err = s.db.Collection(database.Comments).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"content": content, "isEdited": true, "updatedAt": now},
	})
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	comment.Content = content
	comment.IsEdited = true
	comment.UpdatedAt = now
	if err := populateCommentAuthors(ctx, s.db, []*models.Comment{comment}); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment and all of its replies, then decrements the
// post's comment counter by one. Like the increment, a failed decrement is
// logged but does not fail the delete.
func (s *CommentStore) Delete(ctx context.Context, id primitive.ObjectID, actor *models.Actor) error {
	comment, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !comment.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return apierr.Forbidden("Not authorized to delete this comment")
	}

	if _, err := s.db.Collection(database.Comments).DeleteMany(ctx, bson.M{"parentComment": id}); err != nil {
		return fmt.Errorf("delete replies: %w", err)
	}
	if _, err := s.db.Collection(database.Comments).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	_, err = s.db.Collection(database.Posts).UpdateOne(ctx,
		bson.M{"_id": comment.Post}, bson.M{"$inc": bson.M{"commentsCount": -1}})
	if err != nil {
		slog.Error("comment counter decrement failed", "post", comment.Post.Hex(), "error", err)
	}
	return nil
}

// ToggleLike adds the user to the comment's likes set, or removes them if
// already present. Returns the resulting count and membership.
func (s *CommentStore) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (int, bool, error) {
	comment, err := s.FindByID(ctx, id)
	if err != nil {
		return 0, false, err
	}

	likes := comment.Likes
	liked := false
	if comment.LikedBy(userID) {
		kept := make([]primitive.ObjectID, 0, len(likes))
		for _, uid := range likes {
			if uid != userID {
				kept = append(kept, uid)
			}
		}
		likes = kept
	} else {
		likes = append(likes, userID)
		liked = true
	}

	_, err = s.db.Collection(database.Comments).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M{"likes": likes}})
	if err != nil {
		return 0, false, fmt.Errorf("toggle comment like: %w", err)
	}
	return len(likes), liked, nil
}

// loadPostComments builds the full comment thread of a post: top-level
// comments newest first, replies oldest first, authors populated.
func loadPostComments(ctx context.Context, db *database.DB, postID primitive.ObjectID) ([]models.Comment, error) {
	csr, err := db.Collection(database.Comments).Find(ctx,
		bson.M{"post": postID, "parentComment": nil},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list post comments: %w", err)
	}

	comments := []models.Comment{}
	if err := csr.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode post comments: %w", err)
	}
	if err := attachReplies(ctx, db, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// attachReplies loads the replies of the given top-level comments in one
// query and populates authors on both levels.
func attachReplies(ctx context.Context, db *database.DB, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	parents := make([]primitive.ObjectID, len(comments))
	for i := range comments {
		parents[i] = comments[i].ID
	}

	csr, err := db.Collection(database.Comments).Find(ctx,
		bson.M{"parentComment": bson.M{"$in": parents}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return fmt.Errorf("list replies: %w", err)
	}

	var replies []models.Comment
	if err := csr.All(ctx, &replies); err != nil {
		return fmt.Errorf("decode replies: %w", err)
	}

	byParent := make(map[primitive.ObjectID][]models.Comment)
	for _, r := range replies {
		byParent[*r.ParentComment] = append(byParent[*r.ParentComment], r)
	}
	for i := range comments {
		comments[i].Replies = byParent[comments[i].ID]
	}

	if err := populateSliceAuthors(ctx, db, comments); err != nil {
		return err
	}
	for i := range comments {
		if err := populateSliceAuthors(ctx, db, comments[i].Replies); err != nil {
			return err
		}
	}
	return nil
}

// populateSliceAuthors attaches author summaries to a slice of comments.
func populateSliceAuthors(ctx context.Context, db *database.DB, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, len(comments))
	for i := range comments {
		ids[i] = comments[i].Author
	}
	authors, err := loadAuthors(ctx, db, authorIDs(ids))
	if err != nil {
		return err
	}
	for i := range comments {
		comments[i].AuthorInfo = authors[comments[i].Author]
	}
	return nil
}

// populateCommentAuthors attaches author summaries to individual comments.
func populateCommentAuthors(ctx context.Context, db *database.DB, comments []*models.Comment) error {
	ids := make([]primitive.ObjectID, len(comments))
	for i := range comments {
		ids[i] = comments[i].Author
	}
	authors, err := loadAuthors(ctx, db, authorIDs(ids))
	if err != nil {
		return err
	}
	for i := range comments {
		comments[i].AuthorInfo = authors[comments[i].Author]
	}
	return nil
}
