package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	gerr "github.com/jekabolt/ga4-dashboard/internal/errors"
	"github.com/jekabolt/ga4-dashboard/internal/metrics"
)

// Config holds per-client request limits for the API routes.
type Config struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
}

// Limiter implements a simple in-memory fixed window rate limiter
type Limiter struct {
	mu       sync.RWMutex
	counters map[string]*counter
	window   time.Duration
	max      int
	done     chan struct{}
	once     sync.Once
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and max requests
func NewLimiter(window time.Duration, max int) *Limiter {
	l := &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
		done:     make(chan struct{}),
	}
	go l.cleanup(time.Minute)
	return l
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}

	if c.count >= l.max {
		return false
	}

	c.count++
	return true
}

// GetRemaining returns the number of remaining requests for the given key
func (l *Limiter) GetRemaining(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, exists := l.counters[key]
	if !exists || time.Now().After(c.expiresAt) {
		return l.max
	}

	remaining := l.max - c.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

func (l *Limiter) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.counters)
}

func (l *Limiter) evictExpired(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.counters {
		if now.After(c.expiresAt) {
			delete(l.counters, key)
		}
	}
}

// cleanup periodically removes expired counters
func (l *Limiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.evictExpired(now)
		}
	}
}

// Middleware rejects requests over the limit with 429. key extracts the
// client identity from the request.
func Middleware(l *Limiter, key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if !l.Allow(k) {
				metrics.RateLimitedTotal.Inc()
				slog.Default().WarnContext(r.Context(), "rate limit exceeded",
					slog.String("client", k),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				gerr.Render(w, r, gerr.ErrRateLimited)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(l.GetRemaining(k)))
			next.ServeHTTP(w, r)
		})
	}
}
