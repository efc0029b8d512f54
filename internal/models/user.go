// Package models defines the document structures stored in MongoDB and
// provides the core types used throughout the application.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultAvatar is assigned to users who never uploaded a profile picture.
const DefaultAvatar = "https://res.cloudinary.com/demo/image/upload/v1676305189/default-avatar.jpg"

// User represents a registered account. The password hash is stored under the
// original "password" field name and is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Avatar       string             `json:"avatar" bson:"avatar"`
	Bio          string             `json:"bio" bson:"bio"`
	Role         Role               `json:"role" bson:"role"`
	IsVerified   bool               `json:"isVerified" bson:"isVerified"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns the author summary that accompanies posts and comments.
// Credential fields are never included.
func (u *User) Public() *PublicAuthor {
	return &PublicAuthor{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

// PublicAuthor is the public-safe author summary populated on posts and
// comments: username and avatar only. Bio is added on single-post reads.
type PublicAuthor struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Avatar   string             `json:"avatar"`
	Bio      string             `json:"bio,omitempty"`
}

// Actor is the resolved acting identity attached to a request by the
// access-control gate: who is making the call, and with which role.
// Authorization decisions themselves are made inside the core operations.
type Actor struct {
	ID   primitive.ObjectID
	Role Role
}

// IsAdmin returns true if the acting identity carries the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// UserStats aggregates publication activity for a user's public profile.
type UserStats struct {
	TotalPosts    int   `json:"totalPosts"`
	TotalViews    int64 `json:"totalViews"`
	TotalLikes    int   `json:"totalLikes"`
	TotalComments int64 `json:"totalComments"`
}
