package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	limited := 0
	rl.OnLimited = func() { limited++ }

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("1.2.3.4:1000"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	// Same host, different port.
	if code := send("1.2.3.4:2000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", code)
	}
	if code := send("5.6.7.8:1000"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}

	if limited != 1 {
		t.Fatalf("expected one limited request, got %d", limited)
	}
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := getIP(req); got != "10.0.0.1" {
		t.Fatalf("expected host of RemoteAddr, got %q", got)
	}

	req.Header.Set("X-Real-IP", "9.9.9.9")
	if got := getIP(req); got != "9.9.9.9" {
		t.Fatalf("expected X-Real-IP, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	if got := getIP(req); got != "1.1.1.1" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}

func TestCleanupLimitersDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	now := time.Now()

	rl.getLimiter("old", now.Add(-2*time.Hour))
	rl.getLimiter("fresh", now)

	if removed := rl.CleanupLimiters(now.Add(-time.Hour)); removed != 1 {
		t.Fatalf("expected one idle limiter removed, got %d", removed)
	}
	if _, ok := rl.clients["fresh"]; !ok {
		t.Fatalf("expected fresh limiter to be kept")
	}
}
