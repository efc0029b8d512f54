// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment document. A nil ParentComment marks a
// top-level comment; a non-nil one marks a reply (one level of nesting).
type Comment struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id"`
	Content       string               `json:"content" bson:"content"`
	Post          primitive.ObjectID   `json:"postId" bson:"post"`
	Author        primitive.ObjectID   `json:"authorId" bson:"author"`
	AuthorInfo    *PublicAuthor        `json:"author,omitempty" bson:"-"`
	ParentComment *primitive.ObjectID  `json:"parentComment,omitempty" bson:"parentComment"`
	IsEdited      bool                 `json:"isEdited" bson:"isEdited"`
	Likes         []primitive.ObjectID `json:"likes" bson:"likes"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`

	// Replies is populated when listing a post's top-level comments.
	Replies []Comment `json:"replies,omitempty" bson:"-"`
}

// IsReply returns true if the comment has a parent.
func (c *Comment) IsReply() bool {
	return c.ParentComment != nil
}

// OwnedBy returns true if the given user authored the comment.
func (c *Comment) OwnedBy(userID primitive.ObjectID) bool {
	return c.Author == userID
}

// LikedBy returns true if the given user is present in the likes set.
func (c *Comment) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
