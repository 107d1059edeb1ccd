package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// sweepThreshold bounds the window map; expired windows are dropped once it
// is exceeded.
const sweepThreshold = 10000

type window struct {
	count int
	reset time.Time
}

// Limiter counts requests per client address in fixed windows. It expects
// RemoteAddr to already hold the client address (chi's RealIP runs first).
type Limiter struct {
	limit int
	per   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

func NewLimiter(limit int, per time.Duration) *Limiter {
	return &Limiter{limit: limit, per: per, now: time.Now, windows: make(map[string]*window)}
}

// allow records one request for key and returns the remaining budget, or
// ok=false with the time until the window resets.
func (l *Limiter) allow(key string) (remaining int, retry time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if len(l.windows) > sweepThreshold {
		for k, w := range l.windows {
			if !now.Before(w.reset) {
				delete(l.windows, k)
			}
		}
	}
	w, found := l.windows[key]
	if !found || !now.Before(w.reset) {
		w = &window{reset: now.Add(l.per)}
		l.windows[key] = w
	}
	if w.count >= l.limit {
		return 0, w.reset.Sub(now), false
	}
	w.count++
	return l.limit - w.count, 0, true
}

// Handler enforces the limit. A non-positive limit disables it.
func (l *Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		remaining, retry, ok := l.allow(clientAddr(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			secs := int(retry / time.Second)
			if retry%time.Second != 0 {
				secs++
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit allows limit requests per client in each window of length per.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	return NewLimiter(limit, per).Handler
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
