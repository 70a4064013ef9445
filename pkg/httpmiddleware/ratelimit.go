package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	// Max is the number of requests a client may burst; it refills fully over Window.
	Max int
	// Window is the time needed to refill Max tokens.
	Window time.Duration
	// KeyFunc extracts the rate limit key from a request.
	// If nil, the client IP address is used.
	KeyFunc func(*http.Request) string
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client key.
type rateLimiter struct {
	cfg     RateLimitConfig
	every   rate.Limit
	mu      sync.Mutex
	clients map[string]*client
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	return &rateLimiter{
		cfg:     cfg,
		every:   rate.Every(cfg.Window / time.Duration(max(cfg.Max, 1))),
		clients: make(map[string]*client),
	}
}

// allow takes one token for key and reports the tokens left.
func (rl *rateLimiter) allow(key string, now time.Time) (remaining int, retryAfter time.Duration, allowed bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.every, rl.cfg.Max)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	if !c.limiter.AllowN(now, 1) {
		r := c.limiter.ReserveN(now, 1)
		retryAfter = r.DelayFrom(now)
		r.CancelAt(now)
		return 0, retryAfter, false
	}

	remaining = int(math.Floor(c.limiter.TokensAt(now)))
	return max(remaining, 0), 0, true
}

// cleanup drops clients idle for longer than a full refill.
func (rl *rateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) >= rl.cfg.Window {
			delete(rl.clients, key)
		}
	}
}

func (rl *rateLimiter) startCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(2 * rl.cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.cleanup(now)
			}
		}
	}()
}

// RateLimit returns a middleware enforcing a per-key token bucket. Rejected
// requests get 429 with a JSON body and Retry-After. Every response carries
// X-RateLimit-Limit and X-RateLimit-Remaining.
//
// Idle clients are never evicted; use RateLimitWithCleanup in servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	return rateLimitMiddleware(newRateLimiter(cfg))
}

// RateLimitWithCleanup is like RateLimit but evicts idle clients every two
// windows until ctx is cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	rl := newRateLimiter(cfg)
	rl.startCleanup(ctx)
	return rateLimitMiddleware(rl)
}

func rateLimitMiddleware(rl *rateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, retryAfter, allowed := rl.allow(rl.cfg.KeyFunc(r), time.Now())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// RemoteAddr host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
