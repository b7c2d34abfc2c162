package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Avaneesh2012/futuride/internal/metrics"
	"golang.org/x/time/rate"
)

// Clock abstraction so window expiry is testable.
type Clock func() time.Time

type window struct {
	count int
	start time.Time
}

// RateLimiter throttles execution requests. It combines a fixed-window
// counter per client identity, a global token bucket smoother, and a cap
// on concurrently running executions. It is owned by the hosting layer:
// the execution core never sees it.
type RateLimiter struct {
	global        *rate.Limiter
	mu            sync.Mutex
	windows       map[string]*window
	limit         int
	windowDur     time.Duration
	maxConcurrent int64
	currentConc   int64
	now           Clock
}

func NewRateLimiter(requestsPerWindow int, windowDur time.Duration, globalRPS float64, maxConcurrent int) *RateLimiter {
	return &RateLimiter{
		global:        rate.NewLimiter(rate.Limit(globalRPS), int(globalRPS)*2),
		windows:       make(map[string]*window),
		limit:         requestsPerWindow,
		windowDur:     windowDur,
		maxConcurrent: int64(maxConcurrent),
		now:           time.Now,
	}
}

// Allow reports whether a request from the given client may proceed. Each
// allowed request must be paired with a Done call once it finishes.
func (rl *RateLimiter) Allow(client string) bool {
	if !rl.global.Allow() {
		metrics.RateLimitHits.Inc()
		return false
	}

	now := rl.now()
	rl.mu.Lock()

	// The concurrency gate is checked first so a rejected request does
	// not burn one of the client's window slots.
	if rl.currentConc >= rl.maxConcurrent {
		rl.mu.Unlock()
		metrics.RateLimitHits.Inc()
		return false
	}

	w, ok := rl.windows[client]
	switch {
	case !ok, now.Sub(w.start) > rl.windowDur:
		rl.windows[client] = &window{count: 1, start: now}
	case w.count >= rl.limit:
		rl.mu.Unlock()
		metrics.RateLimitHits.Inc()
		return false
	default:
		w.count++
	}

	rl.currentConc++
	rl.mu.Unlock()

	return true
}

func (rl *RateLimiter) Done() {
	rl.mu.Lock()
	if rl.currentConc > 0 {
		rl.currentConc--
	}
	rl.mu.Unlock()
}

// Middleware is a gorilla/mux-compatible wrapper applying the limiter to
// every request it fronts.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ClientIP(r)) {
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		defer rl.Done()

		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the client identity used as the rate-limit key.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// StartCleanup periodically drops windows that have fully expired, so the
// per-client map does not grow without bound.
func (rl *RateLimiter) StartCleanup(done <-chan struct{}, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := rl.now().Add(-rl.windowDur)
				rl.mu.Lock()
				for client, w := range rl.windows {
					if w.start.Before(cutoff) {
						delete(rl.windows, client)
					}
				}
				rl.mu.Unlock()
			case <-done:
				return
			}
		}
	}()
}
