// Package response writes the JSON envelope shared by every API endpoint:
// {success, message, data, timestamp}, with a field-error list appended on
// validation failures.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/apierr"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Data      any                 `json:"data"`
	Errors    []apierr.FieldError `json:"errors,omitempty"`
	Timestamp string              `json:"timestamp"`
}

// JSON writes an envelope with the given status, message, and payload.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{
		Success:   status < 400,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// OK writes a 200 envelope.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, message, data)
}

// Created writes a 201 envelope.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, message, data)
}

// Error translates a classified error into its status code and a user-safe
// envelope. Unexpected causes are logged here and never leak to the client.
func Error(w http.ResponseWriter, err error) {
	ae := apierr.From(err)
	if ae.Kind == apierr.KindInternal {
		slog.Error("internal error", "error", err)
	}

	write(w, ae.Status(), Envelope{
		Success:   false,
		Message:   ae.Message,
		Data:      nil,
		Errors:    ae.Fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("encode response", "error", err)
	}
}
