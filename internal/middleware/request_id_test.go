package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured == "" {
		t.Fatal("request ID should be generated when missing")
	}
	if got := rec.Header().Get(RequestIDHeader); got != captured {
		t.Errorf("response header = %q, want %q", got, captured)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != "client-supplied-id" {
		t.Errorf("request ID = %q, want %q", captured, "client-supplied-id")
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("request ID = %q, want empty", got)
	}
}
