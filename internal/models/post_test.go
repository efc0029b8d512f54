package models

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestApplyDerived_Slug verifies slug derivation from the title.
func TestApplyDerived_Slug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "My First Post", want: "my-first-post"},
		{name: "punctuation", title: "Go, Mongo & Friends!", want: "go-mongo-friends"},
		{name: "recomputed on title change", title: "Changed Title", want: "changed-title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Title: tt.title, Content: "body"}
			p.ApplyDerived()
			if p.Slug != tt.want {
				t.Errorf("Slug = %q, want %q", p.Slug, tt.want)
			}
		})
	}
}

// TestApplyDerived_ReadingTime verifies the ceil(words/200) estimate.
func TestApplyDerived_ReadingTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{name: "empty content", words: 0, want: 0},
		{name: "single word", words: 1, want: 1},
		{name: "exactly one minute", words: 200, want: 1},
		{name: "just over one minute", words: 201, want: 2},
		{name: "five minutes", words: 1000, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Title: "t", Content: strings.TrimSpace(strings.Repeat("word ", tt.words))}
			p.ApplyDerived()
			if p.ReadingTime != tt.want {
				t.Errorf("ReadingTime = %d, want %d", p.ReadingTime, tt.want)
			}
		})
	}
}

// TestApplyDerived_Excerpt verifies excerpt generation only when absent.
func TestApplyDerived_Excerpt(t *testing.T) {
	long := strings.Repeat("a", 300)

	p := &Post{Title: "t", Content: long}
	p.ApplyDerived()
	if want := strings.Repeat("a", 150) + "..."; p.Excerpt != want {
		t.Errorf("derived Excerpt = %q, want first 150 chars + ellipsis", p.Excerpt)
	}

	p = &Post{Title: "t", Content: long, Excerpt: "hand-written"}
	p.ApplyDerived()
	if p.Excerpt != "hand-written" {
		t.Errorf("explicit Excerpt overwritten: %q", p.Excerpt)
	}

	p = &Post{Title: "t", Content: "short"}
	p.ApplyDerived()
	if p.Excerpt != "short..." {
		t.Errorf("short-content Excerpt = %q, want %q", p.Excerpt, "short...")
	}
}

// TestPostLikedBy verifies membership checks against the likes set.
func TestPostLikedBy(t *testing.T) {
	liker := primitive.NewObjectID()
	other := primitive.NewObjectID()
	p := &Post{Likes: []primitive.ObjectID{liker}}

	if !p.LikedBy(liker) {
		t.Error("LikedBy(liker) = false, want true")
	}
	if p.LikedBy(other) {
		t.Error("LikedBy(other) = true, want false")
	}
}

// TestPostOwnedBy verifies author identity checks.
func TestPostOwnedBy(t *testing.T) {
	author := primitive.NewObjectID()
	p := &Post{Author: author}

	if !p.OwnedBy(author) {
		t.Error("OwnedBy(author) = false, want true")
	}
	if p.OwnedBy(primitive.NewObjectID()) {
		t.Error("OwnedBy(stranger) = true, want false")
	}
}

// TestPostIsPublished verifies status checks across all states.
func TestPostIsPublished(t *testing.T) {
	tests := []struct {
		status PostStatus
		want   bool
	}{
		{PostStatusPublished, true},
		{PostStatusDraft, false},
		{PostStatusArchived, false},
		{PostStatus(""), false},
	}

	for _, tt := range tests {
		p := &Post{Status: tt.status}
		if got := p.IsPublished(); got != tt.want {
			t.Errorf("Post{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
