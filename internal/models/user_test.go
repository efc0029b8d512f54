package models

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUserIsAdmin verifies role checks.
func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleUser, false},
		{Role(""), false},
	}

	for _, tt := range tests {
		u := &User{Role: tt.role}
		if got := u.IsAdmin(); got != tt.want {
			t.Errorf("User{Role: %q}.IsAdmin() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

// TestUserJSONNeverLeaksPassword verifies the credential hash is excluded
// from serialized users.
func TestUserJSONNeverLeaksPassword(t *testing.T) {
	u := &User{
		ID:           primitive.NewObjectID(),
		Username:     "kara",
		Email:        "kara@example.com",
		PasswordHash: "$2a$10$secret-hash",
		Role:         RoleUser,
	}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if strings.Contains(string(data), "secret-hash") {
		t.Errorf("serialized user leaks password hash: %s", data)
	}
	if strings.Contains(string(data), "password") {
		t.Errorf("serialized user contains password field: %s", data)
	}
}

// TestUserPublic verifies the author summary carries only public fields.
func TestUserPublic(t *testing.T) {
	u := &User{
		ID:           primitive.NewObjectID(),
		Username:     "kara",
		Email:        "kara@example.com",
		PasswordHash: "hash",
		Avatar:       "https://cdn.example.com/a.png",
		Bio:          "writes things",
	}

	pub := u.Public()
	if pub.ID != u.ID || pub.Username != "kara" || pub.Avatar != u.Avatar {
		t.Errorf("Public() = %+v, want id/username/avatar copied", pub)
	}

	data, err := json.Marshal(pub)
	if err != nil {
		t.Fatalf("marshal public author: %v", err)
	}
	if strings.Contains(string(data), "example.com/a.png") == false {
		t.Errorf("avatar missing from summary: %s", data)
	}
	if strings.Contains(string(data), "kara@example.com") {
		t.Errorf("author summary leaks email: %s", data)
	}
}

// TestActorIsAdmin covers nil receivers since anonymous requests carry no actor.
func TestActorIsAdmin(t *testing.T) {
	var anon *Actor
	if anon.IsAdmin() {
		t.Error("nil actor reported as admin")
	}
	if (&Actor{Role: RoleUser}).IsAdmin() {
		t.Error("user actor reported as admin")
	}
	if !(&Actor{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin actor not reported as admin")
	}
}

// TestCommentIsReply verifies top-level vs reply classification.
func TestCommentIsReply(t *testing.T) {
	parent := primitive.NewObjectID()

	top := &Comment{}
	if top.IsReply() {
		t.Error("comment with nil parent classified as reply")
	}

	reply := &Comment{ParentComment: &parent}
	if !reply.IsReply() {
		t.Error("comment with parent not classified as reply")
	}
}
