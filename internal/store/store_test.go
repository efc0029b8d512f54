// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testStores opens an isolated in-memory database with indexes applied.
func testStores(t *testing.T) *Stores {
	t.Helper()

	db, err := database.Open("inkwell_test")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(context.Background())
	})

	if err := db.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return New(db)
}

func seedUser(t *testing.T, s *Stores, username string) *models.User {
	t.Helper()
	user, err := s.Users.Register(context.Background(), username, username+"@example.com", "secret123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func seedPost(t *testing.T, s *Stores, author primitive.ObjectID, title string, status models.PostStatus) *models.Post {
	t.Helper()
	post, err := s.Posts.Create(context.Background(), author, PostInput{
		Title:   title,
		Content: "This is long enough body content for a test post about " + title + ".",
		Status:  status,
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func seedComment(t *testing.T, s *Stores, post, author primitive.ObjectID, content string, parent *primitive.ObjectID) *models.Comment {
	t.Helper()
	c, err := s.Comments.Create(context.Background(), post, author, content, parent)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	// BSON datetimes carry millisecond precision; space out creations so
	// created-at ordering is deterministic in listing tests.
	time.Sleep(2 * time.Millisecond)
	return c
}

func seedPosts(t *testing.T, s *Stores, author primitive.ObjectID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		seedPost(t, s, author, fmt.Sprintf("Post number %02d", i), models.PostStatusPublished)
		time.Sleep(2 * time.Millisecond)
	}
}

func actorFor(u *models.User) *models.Actor {
	return &models.Actor{ID: u.ID, Role: u.Role}
}
