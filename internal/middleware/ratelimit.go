package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/logger"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/response"
)

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	key   func(*http.Request) string

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perSecond events per client with the given burst.
// Clients are keyed by IP.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idle:    10 * time.Minute,
		key:     getClientIP,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow reports whether the client identified by key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1)
}

// Cleanup drops the buckets of clients that went quiet and returns how
// many were removed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.idle {
			delete(rl.buckets, k)
			removed++
		}
	}
	return removed
}

// Run cleans up idle buckets every interval until ctx is done. A zero
// interval uses half the idle timeout.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = rl.idle / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.Cleanup()
		case <-ctx.Done():
			return
		}
	}
}

// Handler returns the limiting middleware
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.key(r)
		if !rl.Allow(key) {
			logger.FromContext(r.Context()).Warn().
				Str("client", key).
				Str("path", r.URL.Path).
				Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			response.TooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
