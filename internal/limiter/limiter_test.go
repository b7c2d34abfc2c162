package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(requestsPerWindow int, window time.Duration, maxConcurrent int) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(requestsPerWindow, window, 1000, maxConcurrent)
	now := time.Now()
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestFixedWindowLimitsPerClient(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(3, time.Hour, 100)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
		rl.Done()
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth request in the window should be rejected")
	}

	// A different client has its own window.
	if !rl.Allow("5.6.7.8") {
		t.Error("other client should not be affected")
	}
	rl.Done()
}

func TestWindowResets(t *testing.T) {
	t.Parallel()

	rl, now := newTestLimiter(1, time.Hour, 100)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	rl.Done()
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request in the same window should be rejected")
	}

	*now = now.Add(time.Hour + time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("request after the window expired should be allowed")
	}
	rl.Done()
}

func TestConcurrencyGate(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(100, time.Hour, 2)

	if !rl.Allow("a") || !rl.Allow("b") {
		t.Fatal("first two concurrent requests should be allowed")
	}
	if rl.Allow("c") {
		t.Error("third concurrent request should be rejected")
	}

	rl.Done()
	if !rl.Allow("c") {
		t.Error("request after a slot freed should be allowed")
	}
}

func TestConcurrencyRejectionKeepsWindowSlot(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(2, time.Hour, 1)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	// Gate is full: this rejection must not count against the window.
	if rl.Allow("1.2.3.4") {
		t.Fatal("second concurrent request should be rejected")
	}
	rl.Done()

	// Both window slots must still be available.
	if !rl.Allow("1.2.3.4") {
		t.Error("second window slot should remain after a concurrency rejection")
	}
	rl.Done()
	if rl.Allow("1.2.3.4") {
		t.Error("third request in the window should be rejected")
	}
}

func TestMiddlewareRejectsWithJSONStatus(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(1, time.Hour, 100)

	called := 0
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/execute", nil)
	req.RemoteAddr = "9.9.9.9:12345"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if called != 1 {
		t.Errorf("handler called %d times, want 1", called)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("ClientIP = %q, want 10.0.0.1", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Errorf("ClientIP with X-Forwarded-For = %q, want 203.0.113.7", got)
	}
}
