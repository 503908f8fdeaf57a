// Package ratelimit throttles expensive demo endpoints per client IP.
package ratelimit

import (
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultCleanupInterval = time.Minute
	defaultStaleAfter      = 10 * time.Minute
)

// Sentinel errors returned by New.
var (
	ErrInvalidLimit    = errors.New("ratelimit: requests per interval must be positive")
	ErrInvalidInterval = errors.New("ratelimit: interval must be positive")
)

// Option applies a configuration option to the Limiter.
type Option func(*Limiter)

// WithCleanup sets how often idle clients are evicted and how long they must be idle.
func WithCleanup(every, staleAfter time.Duration) Option {
	return func(l *Limiter) {
		if every > 0 {
			l.cleanupInterval = every
		}
		if staleAfter > 0 {
			l.staleAfter = staleAfter
		}
	}
}

// WithOnReject registers a callback invoked for every rejected request.
func WithOnReject(fn func(r *http.Request)) Option {
	return func(l *Limiter) {
		l.onReject = fn
	}
}

// Limiter keeps one token bucket per client IP.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry

	rate            rate.Limit
	burst           int
	cleanupInterval time.Duration
	staleAfter      time.Duration
	onReject        func(r *http.Request)

	done      chan struct{}
	closeOnce sync.Once
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New allows requestsPerInterval requests per interval per client, with the
// full allowance available as a burst.
func New(requestsPerInterval int, interval time.Duration, opts ...Option) (*Limiter, error) {
	if requestsPerInterval <= 0 {
		return nil, ErrInvalidLimit
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	l := &Limiter{
		clients:         make(map[string]*clientEntry),
		rate:            rate.Limit(float64(requestsPerInterval) / interval.Seconds()),
		burst:           requestsPerInterval,
		cleanupInterval: defaultCleanupInterval,
		staleAfter:      defaultStaleAfter,
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	go l.cleanupLoop()
	return l, nil
}

func (l *Limiter) getClient(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.clients[ip]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Allow reports whether a request from ip may proceed now.
func (l *Limiter) Allow(ip string) bool {
	return l.getClient(ip).Allow()
}

// RetryAfter returns the whole seconds until ip may send another request.
func (l *Limiter) RetryAfter(ip string) int {
	reservation := l.getClient(ip).Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	return int(math.Ceil(delay.Seconds()))
}

// Clients returns the number of tracked client IPs.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, entry := range l.clients {
		if now.Sub(entry.lastSeen) > l.staleAfter {
			delete(l.clients, ip)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// ClientIP returns the request's remote IP without the port.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Problem is an RFC 7807 problem body.
type Problem struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// Middleware rejects over-limit requests with 429 and a Retry-After header.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if l.Allow(ip) {
			next.ServeHTTP(w, r)
			return
		}

		if l.onReject != nil {
			l.onReject(r)
		}
		retryAfter := l.RetryAfter(ip)
		w.Header().Set("Content-Type", "application/problem+json")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(Problem{
			Type:       "about:blank",
			Title:      "Too Many Requests",
			Status:     http.StatusTooManyRequests,
			Detail:     "Rate limit exceeded. Try again in " + strconv.Itoa(retryAfter) + " seconds.",
			RetryAfter: retryAfter,
		})
	})
}
