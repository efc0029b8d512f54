// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Seed inserts a development admin account and a welcome post when the users
// collection is empty. It is a no-op on populated databases and never runs in
// production (main gates it behind dev mode).
func (d *DB) Seed(ctx context.Context) error {
	count, err := d.Collection(Users).CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	now := time.Now().UTC()
	adminID := primitive.NewObjectID()
	_, err = d.Collection(Users).InsertOne(ctx, bson.M{
		"_id":        adminID,
		"username":   "admin",
		"email":      "admin@example.com",
		"password":   string(hash),
		"avatar":     "",
		"bio":        "Site administrator",
		"role":       "admin",
		"isVerified": true,
		"createdAt":  now,
		"updatedAt":  now,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	_, err = d.Collection(Posts).InsertOne(ctx, bson.M{
		"_id":           primitive.NewObjectID(),
		"title":         "Welcome to Inkwell",
		"content":       "This is your first post. Log in as admin@example.com to write your own, or delete this one from the dashboard once you have published something better.",
		"excerpt":       "This is your first post.",
		"featuredImage": "",
		"author":        adminID,
		"categories":    []string{"announcements"},
		"tags":          []string{"welcome"},
		"status":        "published",
		"isFeatured":    true,
		"viewCount":     int64(0),
		"likes":         []primitive.ObjectID{},
		"commentsCount": int64(0),
		"slug":          "welcome-to-inkwell",
		"readingTime":   1,
		"createdAt":     now,
		"updatedAt":     now,
	})
	if err != nil {
		return fmt.Errorf("seed welcome post: %w", err)
	}

	slog.Info("development data seeded", "admin", "admin@example.com", "password", "admin123")
	return nil
}
