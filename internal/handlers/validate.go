// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"inkwell/internal/apierr"
)

// Validation limits for user and content fields. Validation enumerates every
// offending field instead of stopping at the first.
const (
	minUsernameLen = 3
	maxUsernameLen = 30
	minPasswordLen = 6
	minTitleLen    = 5
	maxTitleLen    = 200
	minContentLen  = 50
	maxExcerptLen  = 500
	minCommentLen  = 2
	maxCommentLen  = 1000
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// fieldErrors accumulates per-field validation failures.
type fieldErrors []apierr.FieldError

func (fe *fieldErrors) add(field, message string) {
	*fe = append(*fe, apierr.FieldError{Field: field, Message: message})
}

// err converts accumulated failures into a validation error, or nil.
func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return apierr.Validation("Validation failed", fe...)
}

func validateUsername(fe *fieldErrors, username string) {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		fe.add("username", "Username must be between 3 and 30 characters")
	} else if !usernameRe.MatchString(username) {
		fe.add("username", "Username can only contain letters, numbers, and underscores")
	}
}

func validateEmail(fe *fieldErrors, email string) {
	if !emailRe.MatchString(email) {
		fe.add("email", "Please provide a valid email")
	}
}

func validatePassword(fe *fieldErrors, field, password string) {
	if utf8.RuneCountInString(password) < minPasswordLen {
		fe.add(field, "Password must be at least 6 characters")
	}
}

func validateRegister(username, email, password string) error {
	var fe fieldErrors
	validateUsername(&fe, username)
	validateEmail(&fe, email)
	validatePassword(&fe, "password", password)
	return fe.err()
}

func validateLogin(email, password string) error {
	var fe fieldErrors
	validateEmail(&fe, email)
	if password == "" {
		fe.add("password", "Password is required")
	}
	return fe.err()
}

// validateProfile checks only the fields the caller provided.
func validateProfile(username, email string) error {
	var fe fieldErrors
	if username != "" {
		validateUsername(&fe, username)
	}
	if email != "" {
		validateEmail(&fe, email)
	}
	return fe.err()
}

func validatePasswordChange(current, next string) error {
	var fe fieldErrors
	if current == "" {
		fe.add("currentPassword", "Current password is required")
	}
	validatePassword(&fe, "newPassword", next)
	return fe.err()
}

func validatePostCreate(title, content, excerpt string) error {
	var fe fieldErrors
	validatePostTitle(&fe, title)
	validatePostContent(&fe, content)
	validatePostExcerpt(&fe, excerpt)
	return fe.err()
}

// validatePostUpdate checks only the fields present in the update.
func validatePostUpdate(title, content, excerpt *string) error {
	var fe fieldErrors
	if title != nil {
		validatePostTitle(&fe, *title)
	}
	if content != nil {
		validatePostContent(&fe, *content)
	}
	if excerpt != nil {
		validatePostExcerpt(&fe, *excerpt)
	}
	return fe.err()
}

func validatePostTitle(fe *fieldErrors, title string) {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < minTitleLen || n > maxTitleLen {
		fe.add("title", "Title must be between 5 and 200 characters")
	}
}

func validatePostContent(fe *fieldErrors, content string) {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < minContentLen {
		fe.add("content", "Content must be at least 50 characters")
	}
}

func validatePostExcerpt(fe *fieldErrors, excerpt string) {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		fe.add("excerpt", "Excerpt cannot exceed 500 characters")
	}
}

func validateCommentContent(content string) error {
	var fe fieldErrors
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < minCommentLen || n > maxCommentLen {
		fe.add("content", "Comment must be between 2 and 1000 characters")
	}
	return fe.err()
}
