// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/apierr"
	"inkwell/internal/database"
	"inkwell/internal/markdown"
	"inkwell/internal/models"
)

// featuredLimit caps the featured-posts listing.
const featuredLimit = 5

// PostStore handles all post-related database operations, including the
// denormalized view, like, and comment counters.
type PostStore struct {
	db *database.DB
}

// NewPostStore creates a new PostStore with the given database handle.
func NewPostStore(db *database.DB) *PostStore {
	return &PostStore{db: db}
}

// PostInput carries the writable fields of a post on creation.
type PostInput struct {
	Title         string
	Content       string
	Excerpt       string
	FeaturedImage string
	Categories    []string
	Tags          []string
	Status        models.PostStatus
	IsFeatured    bool
}

// PostUpdate carries the writable fields of a post on update. Nil pointers
// and nil slices leave the stored value untouched.
type PostUpdate struct {
	Title         *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	Categories    []string
	Tags          []string
	Status        *models.PostStatus
	IsFeatured    *bool
}

// Create inserts a new post for the given author. Status defaults to draft
// and derived fields (slug, reading time, excerpt) are computed before the
// insert.
func (s *PostStore) Create(ctx context.Context, author primitive.ObjectID, in PostInput) (*models.Post, error) {
	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	image := in.FeaturedImage
	if image == "" {
		image = models.DefaultFeaturedImage
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:            primitive.NewObjectID(),
		Title:         in.Title,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		FeaturedImage: image,
		Author:        author,
		Categories:    trimAll(in.Categories),
		Tags:          trimAll(in.Tags),
		Status:        status,
		IsFeatured:    in.IsFeatured,
		Likes:         []primitive.ObjectID{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	post.ApplyDerived()

	if _, err := s.db.Collection(database.Posts).InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

// FindByID retrieves a post by id without touching any counters.
func (s *PostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.db.Collection(database.Posts).FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.NotFound("Post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

// GetWithView retrieves a post for display: the author summary (with bio) and
// the full comment thread are populated, and the view counter is incremented
// unless the requester is the post's own author.
func (s *PostStore) GetWithView(ctx context.Context, id primitive.ObjectID, actor *models.Actor) (*models.Post, error) {
	post, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor == nil || actor.ID != post.Author {
		_, err := s.db.Collection(database.Posts).UpdateOne(ctx,
			bson.M{"_id": id}, bson.M{"$inc": bson.M{"viewCount": 1}})
		if err != nil {
			return nil, fmt.Errorf("increment view count: %w", err)
		}
		post.ViewCount++
	}

	var author models.User
	err = s.db.Collection(database.Users).FindOne(ctx, bson.M{"_id": post.Author}).Decode(&author)
	if err == nil {
		info := author.Public()
		info.Bio = author.Bio
		post.AuthorInfo = info
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("load post author: %w", err)
	}

	comments, err := loadPostComments(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments

	rendered, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("render post content", "post", id.Hex(), "error", err)
	} else {
		post.ContentHTML = rendered
	}
	return post, nil
}

// List returns a page of posts matching the given filters, authors populated.
// Status defaults to published; search matches title, content, or tags.
func (s *PostStore) List(ctx context.Context, opts ListOptions) (*Page[models.Post], error) {
	status := opts.Status
	if status == "" {
		status = string(models.PostStatusPublished)
	}
	filter := bson.M{"status": status}

	if opts.Category != "" {
		filter["categories"] = opts.Category
	}
	if opts.Tag != "" {
		filter["tags"] = opts.Tag
	}
	if opts.Author != "" {
		author, err := primitive.ObjectIDFromHex(opts.Author)
		if err != nil {
			return nil, apierr.Validation("Invalid author id")
		}
		filter["author"] = author
	}

	if opts.Search != "" {
		return s.searchPage(ctx, filter, opts)
	}
	return s.page(ctx, filter, opts)
}

// searchPage loads every post matching the structured filter and narrows the
// result by substring match on title, content, and tags before paginating.
func (s *PostStore) searchPage(ctx context.Context, filter bson.M, opts ListOptions) (*Page[models.Post], error) {
	csr, err := s.db.Collection(database.Posts).Find(ctx, filter,
		options.Find().SetSort(opts.sortDoc()))
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	var all []models.Post
	if err := csr.All(ctx, &all); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	matched := make([]models.Post, 0, len(all))
	for i := range all {
		if postMatches(&all[i], opts.Search) {
			matched = append(matched, all[i])
		}
	}

	posts := slicePage(matched, opts)
	if err := populateAuthors(ctx, s.db, posts); err != nil {
		return nil, err
	}

	return &Page[models.Post]{
		Data:       posts,
		Pagination: newPagination(int64(len(matched)), opts.page(), opts.limit()),
	}, nil
}

// postMatches reports whether the post's title, content, or any tag contains
// the search term, ignoring case.
func postMatches(p *models.Post, search string) bool {
	if containsFold(p.Title, search) || containsFold(p.Content, search) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, search) {
			return true
		}
	}
	return false
}

// ListByAuthor returns a page of an author's published posts, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, author primitive.ObjectID, opts ListOptions) (*Page[models.Post], error) {
	filter := bson.M{"author": author, "status": models.PostStatusPublished}
	opts.Sort = "-createdAt"
	return s.page(ctx, filter, opts)
}

// Featured returns up to five featured published posts, newest first.
func (s *PostStore) Featured(ctx context.Context) ([]models.Post, error) {
	csr, err := s.db.Collection(database.Posts).Find(ctx,
		bson.M{"isFeatured": true, "status": models.PostStatusPublished},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(featuredLimit))
	if err != nil {
		return nil, fmt.Errorf("find featured posts: %w", err)
	}

	posts := []models.Post{}
	if err := csr.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode featured posts: %w", err)
	}
	if err := populateAuthors(ctx, s.db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update modifies a post. Only the author or an admin may update it; a
// missing post reports not-found before any permission check. Derived fields
// are recomputed when title or content change.
func (s *PostStore) Update(ctx context.Context, id primitive.ObjectID, actor *models.Actor, in PostUpdate) (*models.Post, error) {
	post, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, apierr.Forbidden("Not authorized to update this post")
	}

	set := updateSet(post, in, time.Now().UTC())
	if _, err := s.db.Collection(database.Posts).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// updateSet applies the supplied fields to the in-memory post, recomputes the
// derived values, and builds a targeted update document. Counters and the
// likes set stay out of it so concurrent increments are never clobbered.
func updateSet(post *models.Post, in PostUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if in.Title != nil {
		post.Title = *in.Title
		set["title"] = post.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
		set["content"] = post.Content
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
		set["featuredImage"] = post.FeaturedImage
	}
	if in.Categories != nil {
		post.Categories = trimAll(in.Categories)
		set["categories"] = post.Categories
	}
	if in.Tags != nil {
		post.Tags = trimAll(in.Tags)
		set["tags"] = post.Tags
	}
	if in.Status != nil {
		post.Status = *in.Status
		set["status"] = post.Status
	}
	if in.IsFeatured != nil {
		post.IsFeatured = *in.IsFeatured
		set["isFeatured"] = post.IsFeatured
	}
	post.UpdatedAt = now
	post.ApplyDerived()
	set["slug"] = post.Slug
	set["excerpt"] = post.Excerpt
	set["readingTime"] = post.ReadingTime
	return set
}

// Delete removes a post and every comment attached to it. Only the author or
// an admin may delete it; a missing post reports not-found before any
// permission check.
func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID, actor *models.Actor) error {
	post, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !post.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return apierr.Forbidden("Not authorized to delete this post")
	}

	if _, err := s.db.Collection(database.Comments).DeleteMany(ctx, bson.M{"post": id}); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	if _, err := s.db.Collection(database.Posts).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ToggleLike adds the user to the post's likes set, or removes them if
// already present. Returns the resulting count and membership.
func (s *PostStore) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (int, bool, error) {
	post, err := s.FindByID(ctx, id)
	if err != nil {
		return 0, false, err
	}

	likes := post.Likes
	liked := false
	if post.LikedBy(userID) {
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

	_, err = s.db.Collection(database.Posts).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M{"likes": likes}})
	if err != nil {
		return 0, false, fmt.Errorf("toggle post like: %w", err)
	}
	return len(likes), liked, nil
}

// RecomputeCommentsCount recounts a post's comments and stores the true
// value, repairing any drift in the denormalized counter. Returns the count.
func (s *PostStore) RecomputeCommentsCount(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return 0, err
	}

	count, err := s.db.Collection(database.Comments).CountDocuments(ctx, bson.M{"post": id})
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}

	_, err = s.db.Collection(database.Posts).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M{"commentsCount": count}})
	if err != nil {
		return 0, fmt.Errorf("store comments count: %w", err)
	}
	return count, nil
}

// page runs a count + find for the given filter and populates authors.
func (s *PostStore) page(ctx context.Context, filter bson.M, opts ListOptions) (*Page[models.Post], error) {
	coll := s.db.Collection(database.Posts)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	csr, err := coll.Find(ctx, filter, options.Find().
		SetSort(opts.sortDoc()).
		SetSkip(opts.skip()).
		SetLimit(int64(opts.limit())))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := []models.Post{}
	if err := csr.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	if err := populateAuthors(ctx, s.db, posts); err != nil {
		return nil, err
	}

	return &Page[models.Post]{
		Data:       posts,
		Pagination: newPagination(total, opts.page(), opts.limit()),
	}, nil
}

// populateAuthors attaches the public author summary to each post in one
// batch query.
func populateAuthors(ctx context.Context, db *database.DB, posts []models.Post) error {
	ids := make([]primitive.ObjectID, len(posts))
	for i := range posts {
		ids[i] = posts[i].Author
	}

	authors, err := loadAuthors(ctx, db, authorIDs(ids))
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].AuthorInfo = authors[posts[i].Author]
	}
	return nil
}

// trimAll trims whitespace from each entry and drops empty ones.
func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
