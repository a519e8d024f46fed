package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
		if rw.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rw.Code)
		}
	}

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
	if rw.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rw.Code)
	}
	if rw.Header().Get("Retry-After") == "" {
		t.Fatal("want Retry-After header on 429")
	}
}

func TestRateLimiterKeysByForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, first)
	if rw.Code != http.StatusOK {
		t.Fatalf("first caller status = %d", rw.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.Header.Set("X-Forwarded-For", "10.0.0.2")
	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, second)
	if rw.Code != http.StatusOK {
		t.Fatalf("other caller should have its own window, status = %d", rw.Code)
	}

	repeat := httptest.NewRequest(http.MethodGet, "/", nil)
	repeat.Header.Set("X-Forwarded-For", "10.0.0.1")
	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, repeat)
	if rw.Code != http.StatusTooManyRequests {
		t.Fatalf("repeat caller status = %d, want 429", rw.Code)
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatal("request id missing from context")
	}
	if got := rw.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("header id %q != context id %q", got, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "retry-7")
	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	if seen != "retry-7" {
		t.Fatalf("inbound id not reused, got %q", seen)
	}
}
