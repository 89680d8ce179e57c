package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"agency-backend/internal/transport"
)

// RateLimiter is a fixed-window counter per client IP and method.
type RateLimiter struct {
	limit   int
	window  time.Duration
	now     func() time.Time
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count int
	reset time.Time
}

func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  span,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	wnd, ok := rl.windows[key]
	if !ok || !now.Before(wnd.reset) {
		rl.windows[key] = &window{count: 1, reset: now.Add(rl.window)}
		rl.sweep(now)
		return true
	}
	if wnd.count >= rl.limit {
		return false
	}
	wnd.count++
	return true
}

// sweep drops expired windows once the map grows past a small bound.
func (rl *RateLimiter) sweep(now time.Time) {
	if len(rl.windows) < 1024 {
		return
	}
	for k, w := range rl.windows {
		if !now.Before(w.reset) {
			delete(rl.windows, k)
		}
	}
}

func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware limits only mutating requests; reads pass through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if !rl.Allow(clientIP(r) + ":" + r.Method) {
			transport.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
