// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/apierr"
	"inkwell/internal/database"
	"inkwell/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *database.DB
}

// NewUserStore creates a new UserStore with the given database handle.
func NewUserStore(db *database.DB) *UserStore {
	return &UserStore{db: db}
}

// Register creates a new account with a bcrypt-hashed password. Duplicate
// usernames or emails are rejected with a conflict.
func (s *UserStore) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	count, err := s.db.Collection(database.Users).CountDocuments(ctx, bson.M{
		"$or": []bson.M{{"username": username}, {"email": email}},
	})
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return nil, apierr.Conflict("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Avatar:       models.DefaultAvatar,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.db.Collection(database.Users).InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Authenticate verifies email + password and returns the account. The error
// never distinguishes a missing account from a wrong password.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(database.Users).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apierr.Unauthorized("Invalid credentials")
	}
	return &user, nil
}

// FindByID retrieves a user by id.
func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(database.Users).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByUsername retrieves a user by their unique username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(database.Users).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// List returns a page of users, optionally filtered by a case-insensitive
// username/email substring search, newest first.
func (s *UserStore) List(ctx context.Context, opts ListOptions) (*Page[models.User], error) {
	coll := s.db.Collection(database.Users)

	if opts.Search != "" {
		csr, err := coll.Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		var all []models.User
		if err := csr.All(ctx, &all); err != nil {
			return nil, fmt.Errorf("decode users: %w", err)
		}

		matched := make([]models.User, 0, len(all))
		for i := range all {
			if containsFold(all[i].Username, opts.Search) || containsFold(all[i].Email, opts.Search) {
				matched = append(matched, all[i])
			}
		}

		return &Page[models.User]{
			Data:       slicePage(matched, opts),
			Pagination: newPagination(int64(len(matched)), opts.page(), opts.limit()),
		}, nil
	}

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	csr, err := coll.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(opts.skip()).
		SetLimit(int64(opts.limit())))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := []models.User{}
	if err := csr.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return &Page[models.User]{
		Data:       users,
		Pagination: newPagination(total, opts.page(), opts.limit()),
	}, nil
}

// UpdateProfile changes a user's own username, email, bio, or avatar.
// Empty strings leave a field untouched; unique fields are checked against
// every other account first.
func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, username, email, bio, avatar string) (*models.User, error) {
	coll := s.db.Collection(database.Users)

	if username != "" {
		n, err := coll.CountDocuments(ctx, bson.M{"username": username, "_id": bson.M{"$ne": id}})
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if n > 0 {
			return nil, apierr.Conflict("Username already taken")
		}
	}
	if email != "" {
		n, err := coll.CountDocuments(ctx, bson.M{"email": email, "_id": bson.M{"$ne": id}})
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return nil, apierr.Conflict("Email already in use")
		}
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if username != "" {
		set["username"] = username
	}
	if email != "" {
		set["email"] = email
	}
	if bio != "" {
		set["bio"] = bio
	}
	if avatar != "" {
		set["avatar"] = avatar
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, apierr.NotFound("User not found")
	}
	return s.FindByID(ctx, id)
}

// ChangePassword verifies the current password and stores a hash of the new one.
func (s *UserStore) ChangePassword(ctx context.Context, id primitive.ObjectID, current, next string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return apierr.Validation("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.db.Collection(database.Users).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": string(hash), "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// AdminUpdate lets an admin change account fields including role and
// verification status. Unique fields are checked like in UpdateProfile.
func (s *UserStore) AdminUpdate(ctx context.Context, id primitive.ObjectID, username, email, bio string, role models.Role, verified *bool) (*models.User, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if username != "" || email != "" || bio != "" {
		if _, err := s.UpdateProfile(ctx, id, username, email, bio, ""); err != nil {
			return nil, err
		}
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if role != "" {
		set["role"] = role
	}
	if verified != nil {
		set["isVerified"] = *verified
	}

	if _, err := s.db.Collection(database.Users).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("admin update user: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes a user together with every post they authored and,
// transitively, every comment on those posts. Admins cannot delete their own
// account through this path.
func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID, actor *models.Actor) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if actor != nil && actor.ID == id {
		return apierr.Validation("You cannot delete your own account")
	}

	// Collect the user's posts so their comment threads go too.
	csr, err := s.db.Collection(database.Posts).Find(ctx, bson.M{"author": id},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("find posts of user: %w", err)
	}
	var posts []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := csr.All(ctx, &posts); err != nil {
		return fmt.Errorf("decode post ids: %w", err)
	}

	if len(posts) > 0 {
		ids := make([]primitive.ObjectID, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		if _, err := s.db.Collection(database.Comments).DeleteMany(ctx, bson.M{"post": bson.M{"$in": ids}}); err != nil {
			return fmt.Errorf("cascade comments: %w", err)
		}
		if _, err := s.db.Collection(database.Posts).DeleteMany(ctx, bson.M{"author": id}); err != nil {
			return fmt.Errorf("cascade posts: %w", err)
		}
	}

	if _, err := s.db.Collection(database.Users).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// PublishedPostsCount returns how many published posts a user has authored.
func (s *UserStore) PublishedPostsCount(ctx context.Context, id primitive.ObjectID) (int64, error) {
	n, err := s.db.Collection(database.Posts).CountDocuments(ctx, bson.M{
		"author": id,
		"status": models.PostStatusPublished,
	})
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Stats aggregates a user's publication activity across their published posts.
func (s *UserStore) Stats(ctx context.Context, id primitive.ObjectID) (*models.UserStats, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	csr, err := s.db.Collection(database.Posts).Find(ctx, bson.M{
		"author": id,
		"status": models.PostStatusPublished,
	})
	if err != nil {
		return nil, fmt.Errorf("find user posts: %w", err)
	}

	var posts []models.Post
	if err := csr.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode user posts: %w", err)
	}

	stats := &models.UserStats{TotalPosts: len(posts)}
	for i := range posts {
		stats.TotalViews += posts[i].ViewCount
		stats.TotalLikes += len(posts[i].Likes)
		stats.TotalComments += posts[i].CommentsCount
	}
	return stats, nil
}
