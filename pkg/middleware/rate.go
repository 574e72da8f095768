package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/canteen/pkg/response"
)

// window is a fixed-window counter for one client key.
type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per client in fixed windows. Expired windows are
// swept lazily on the write path.
type Limiter struct {
	max    int
	period time.Duration

	mu        sync.Mutex
	windows   map[string]*window
	nextSweep time.Time
	now       func() time.Time
}

func NewLimiter(max int, period time.Duration) *Limiter {
	return &Limiter{max: max, period: period, windows: map[string]*window{}, now: time.Now}
}

// Allow records a hit for key and reports whether it is within the limit,
// plus the time the current window resets.
func (l *Limiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		for k, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, k)
			}
		}
		l.nextSweep = now.Add(l.period)
	}

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.max, w.resetAt
}

// RateLimit throttles each client to max requests per period. Authenticated
// callers are keyed by user id, everyone else by remote IP.
func RateLimit(max int, period time.Duration) func(http.Handler) http.Handler {
	l := NewLimiter(max, period)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, reset := l.Allow(clientKey(r))
			if !ok {
				w.Header().Set("Retry-After", fmt.Sprint(int(time.Until(reset).Seconds())+1))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if id, ok := UserIDFromCtx(r.Context()); ok {
		return fmt.Sprintf("user:%d", id)
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return "ip:" + strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
