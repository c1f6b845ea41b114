package server

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

func TestAuthMiddleware_DisabledWhenNoToken(t *testing.T) {
	h := AuthMiddleware("", okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/publications", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/publications", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthMiddleware_RejectsWrongToken(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/v1/publications", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthMiddleware_AcceptsValidToken(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/v1/publications", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthMiddleware_HealthExempt(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAuthMiddleware_RejectsNonBearerScheme(t *testing.T) {
	h := AuthMiddleware("secret", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/v1/publications", nil)
	req.Header.Set("Authorization", "Basic c2VjcmV0")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCORSMiddleware_DefaultAllowsAny(t *testing.T) {
	h := CORSMiddleware("", okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/publications", nil))
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestCORSMiddleware_ConfiguredOrigin(t *testing.T) {
	h := CORSMiddleware("https://dashboard.example.org", okHandler())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/publications", nil))
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.org" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	h := CORSMiddleware("", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/summarize", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if called {
		t.Fatal("preflight should not reach the handler")
	}
}
