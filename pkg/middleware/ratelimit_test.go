package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flumotion/depgraph/pkg/middleware"
)

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := middleware.NewTokenBucket(0, 3)
	for i := 0; i < 3; i++ {
		if !tb.Allow("k") {
			t.Fatalf("expected token %d to be allowed", i)
		}
	}
	if tb.Allow("k") {
		t.Fatal("expected 4th request to be rejected with no refill")
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	tb := middleware.NewTokenBucket(0, 1)
	if !tb.Allow("k") {
		t.Fatal("expected first request allowed")
	}
	if tb.Allow("k") {
		t.Fatal("expected second request rejected before reset")
	}
	tb.Reset()
	if !tb.Allow("k") {
		t.Fatal("expected request allowed after reset")
	}
}

func TestRateLimit_RejectsOverCapacity(t *testing.T) {
	cfg := middleware.RateLimitConfig{RPS: 0, Burst: 1}
	handler := middleware.RateLimit(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be rate limited, got %d", rec2.Code)
	}
}

func TestRateLimit_SeparatesClientsByIP(t *testing.T) {
	cfg := middleware.RateLimitConfig{RPS: 0, Burst: 1}
	handler := middleware.RateLimit(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, addr := range []string{"10.0.0.1:1111", "10.0.0.2:2222"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected client %s's first request to succeed, got %d", addr, rec.Code)
		}
	}
}
