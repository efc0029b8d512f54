// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/slug"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// DefaultFeaturedImage is used when a post is created without one.
const DefaultFeaturedImage = "https://res.cloudinary.com/demo/image/upload/v1676305189/default-post.jpg"

const (
	// excerptLen is how many characters of content seed a derived excerpt.
	excerptLen = 150
	// wordsPerMinute is the reading speed assumed for the reading-time estimate.
	wordsPerMinute = 200
)

// Post represents a blog post document. ViewCount, Likes, and CommentsCount
// are denormalized aggregates maintained by the store; Slug, ReadingTime, and
// Excerpt are derived from title and content at save time.
type Post struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id"`
	Title         string               `json:"title" bson:"title"`
	Content       string               `json:"content" bson:"content"`
	Excerpt       string               `json:"excerpt" bson:"excerpt"`
	FeaturedImage string               `json:"featuredImage" bson:"featuredImage"`
	Author        primitive.ObjectID   `json:"authorId" bson:"author"`
	AuthorInfo    *PublicAuthor        `json:"author,omitempty" bson:"-"`
	Categories    []string             `json:"categories" bson:"categories"`
	Tags          []string             `json:"tags" bson:"tags"`
	Status        PostStatus           `json:"status" bson:"status"`
	IsFeatured    bool                 `json:"isFeatured" bson:"isFeatured"`
	ViewCount     int64                `json:"viewCount" bson:"viewCount"`
	Likes         []primitive.ObjectID `json:"likes" bson:"likes"`
	CommentsCount int64                `json:"commentsCount" bson:"commentsCount"`
	Slug          string               `json:"slug" bson:"slug"`
	ReadingTime   int                  `json:"readingTime" bson:"readingTime"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`

	// ContentHTML and Comments are populated on single-post reads only.
	ContentHTML string    `json:"contentHtml,omitempty" bson:"-"`
	Comments    []Comment `json:"comments,omitempty" bson:"-"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// OwnedBy returns true if the given user authored the post.
func (p *Post) OwnedBy(userID primitive.ObjectID) bool {
	return p.Author == userID
}

// LikedBy returns true if the given user is present in the likes set.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ApplyDerived recomputes the fields derived from title and content: the
// slug, the reading-time estimate, and, when absent, the excerpt. Called by
// the store before every insert and content update, mirroring a pre-save hook.
func (p *Post) ApplyDerived() {
	p.Slug = slug.Generate(p.Title)

	words := len(strings.Fields(p.Content))
	p.ReadingTime = (words + wordsPerMinute - 1) / wordsPerMinute

	if p.Excerpt == "" && p.Content != "" {
		runes := []rune(p.Content)
		if len(runes) > excerptLen {
			runes = runes[:excerptLen]
		}
		p.Excerpt = string(runes) + "..."
	}
}
