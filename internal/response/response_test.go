package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/apierr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

// TestOK verifies the success envelope shape.
func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, "Posts retrieved successfully", map[string]any{"count": 3})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	env := decode(t, rec)
	if !env.Success {
		t.Error("success = false, want true")
	}
	if env.Message != "Posts retrieved successfully" {
		t.Errorf("message = %q", env.Message)
	}
	if _, err := time.Parse(time.RFC3339, env.Timestamp); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", env.Timestamp, err)
	}
}

// TestCreated verifies the 201 envelope.
func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Post created successfully", nil)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if env := decode(t, rec); !env.Success {
		t.Error("success = false, want true")
	}
}

// TestError_StatusMapping verifies kind translation for each taxonomy entry.
func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: apierr.NotFound("Post not found"), want: http.StatusNotFound},
		{name: "forbidden", err: apierr.Forbidden("Not authorized"), want: http.StatusForbidden},
		{name: "unauthorized", err: apierr.Unauthorized("Not logged in"), want: http.StatusUnauthorized},
		{name: "conflict", err: apierr.Conflict("Username already taken"), want: http.StatusConflict},
		{name: "validation", err: apierr.Validation("Validation failed"), want: http.StatusBadRequest},
		{name: "unknown error", err: errors.New("db exploded"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			env := decode(t, rec)
			if env.Success {
				t.Error("success = true on error response")
			}
		})
	}
}

// TestError_InternalNeverLeaksCause verifies internal causes stay out of the
// client-facing message.
func TestError_InternalNeverLeaksCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("pq: password authentication failed"))

	env := decode(t, rec)
	if env.Message != "An unexpected error occurred" {
		t.Errorf("message = %q, leaks internals", env.Message)
	}
}

// TestError_ValidationEnumeratesFields verifies every offending field appears
// in one response.
func TestError_ValidationEnumeratesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apierr.Validation("Validation failed",
		apierr.FieldError{Field: "username", Message: "too short"},
		apierr.FieldError{Field: "email", Message: "invalid"},
		apierr.FieldError{Field: "password", Message: "too short"},
	))

	env := decode(t, rec)
	if len(env.Errors) != 3 {
		t.Fatalf("errors length = %d, want 3", len(env.Errors))
	}
	if env.Errors[0].Field != "username" || env.Errors[2].Field != "password" {
		t.Errorf("field order not preserved: %+v", env.Errors)
	}
}
