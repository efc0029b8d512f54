package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestLogger_PassesThrough verifies the wrapped handler's status and body
// survive the logging wrapper.
func TestLogger_PassesThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tea", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

// TestLogger_AssignsRequestID verifies every response carries a request id.
func TestLogger_AssignsRequestID(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	a := first.Header().Get("X-Request-ID")
	b := second.Header().Get("X-Request-ID")
	if a == "" || b == "" {
		t.Fatal("X-Request-ID header missing")
	}
	if a == b {
		t.Error("request ids not unique across requests")
	}
}

// TestResponseWriter_DefaultStatus verifies an implicit 200 is captured when
// the handler writes a body without calling WriteHeader.
func TestResponseWriter_DefaultStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.Write([]byte("ok"))
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200", rw.statusCode)
	}

	// A late WriteHeader must not overwrite the recorded status.
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode after late WriteHeader = %d, want 200", rw.statusCode)
	}
}
