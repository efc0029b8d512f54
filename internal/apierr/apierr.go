// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apierr defines the error taxonomy shared by the core operations and
// the HTTP surface. Core operations fail fast with the first applicable kind;
// the HTTP layer translates kinds to status codes and never inspects causes.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for status-code translation.
type Kind int

const (
	// KindValidation: malformed or missing input (400).
	KindValidation Kind = iota
	// KindAuthentication: missing or invalid identity (401).
	KindAuthentication
	// KindAuthorization: authenticated but not permitted (403).
	KindAuthorization
	// KindNotFound: referenced entity absent (404).
	KindNotFound
	// KindConflict: duplicate unique field (409).
	KindConflict
	// KindInternal: unexpected failure (500).
	KindInternal
)

// FieldError names one offending input field. Validation responses enumerate
// every offending field, not just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified failure of a core operation.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NotFound reports an absent entity.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden reports an authenticated but unpermitted action.
func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// Unauthorized reports a missing or invalid identity.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Conflict reports a duplicate unique field.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Validation reports malformed input with the full list of offending fields.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// From extracts a classified error, wrapping unknown errors as internal ones
// so every failure reaching the HTTP layer has a status.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("An unexpected error occurred", err)
}

// IsNotFound reports whether err is classified as not-found.
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindNotFound
}

// IsForbidden reports whether err is classified as an authorization failure.
func IsForbidden(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindAuthorization
}

// IsConflict reports whether err is classified as a unique-field conflict.
func IsConflict(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindConflict
}

// IsValidation reports whether err is classified as a validation failure.
func IsValidation(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindValidation
}
