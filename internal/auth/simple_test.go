package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMissingToken(t *testing.T) {
	t.Setenv("JA4GATE_API_TOKEN", "secret")
	h := Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/fingerprints", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestWrongToken(t *testing.T) {
	t.Setenv("JA4GATE_API_TOKEN", "secret")
	h := Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/fingerprints", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestValidToken(t *testing.T) {
	t.Setenv("JA4GATE_API_TOKEN", "secret")
	h := Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/fingerprints", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestOpenPaths(t *testing.T) {
	t.Setenv("JA4GATE_API_TOKEN", "secret")
	h := Middleware(okHandler())

	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s without token, got %d", path, rr.Code)
		}
	}
}
