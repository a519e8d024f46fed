package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a fixed-window limiter keyed by caller IP, held entirely in
// process memory. Good enough for a single-instance deployment; multi-replica
// setups should use the Redis variant so the window is shared.
type RateLimiter struct {
	limit   int
	window  time.Duration
	mu      sync.Mutex
	buckets map[string]*windowBucket
}

type windowBucket struct {
	hits  int
	until time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		buckets: map[string]*windowBucket{},
	}
}

func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := rl.take(callerIP(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b := rl.buckets[key]
	if b == nil || now.After(b.until) {
		rl.sweep(now)
		rl.buckets[key] = &windowBucket{hits: 1, until: now.Add(rl.window)}
		return true, 0
	}
	if b.hits >= rl.limit {
		return false, b.until.Sub(now)
	}
	b.hits++
	return true, 0
}

// sweep drops expired buckets so the map does not grow with every IP that
// ever called. Runs under the lock on the new-bucket path only, which keeps
// the steady-state cost off the hot path.
func (rl *RateLimiter) sweep(now time.Time) {
	if len(rl.buckets) < 1024 {
		return
	}
	for key, b := range rl.buckets {
		if now.After(b.until) {
			delete(rl.buckets, key)
		}
	}
}

// callerIP prefers the first X-Forwarded-For hop so limits follow the real
// client when the service sits behind a proxy.
func callerIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
