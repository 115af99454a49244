// Per-client request budgets for the snapshot endpoint, whose payload
// grows with the world.
package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter grants each client a fixed number of requests per window.
// A client's window starts on its first request and resets wholesale
// once it elapses.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*quota
	budget  int
	window  time.Duration
}

type quota struct {
	remaining int
	opened    time.Time
}

// NewRateLimiter returns a limiter allowing budget requests per window
// per client key. Idle clients are swept in the background.
func NewRateLimiter(budget int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*quota),
		budget:  budget,
		window:  window,
	}
	go func() {
		for range time.Tick(time.Hour) {
			rl.sweep()
		}
	}()
	return rl
}

// Allow spends one request from the client's budget, reporting whether
// any remained.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	q, ok := rl.clients[client]
	if !ok || now.Sub(q.opened) >= rl.window {
		rl.clients[client] = &quota{remaining: rl.budget - 1, opened: now}
		return true
	}
	if q.remaining <= 0 {
		return false
	}
	q.remaining--
	return true
}

// RetryAfter reports whole seconds until the client's window resets,
// rounded up.
func (rl *RateLimiter) RetryAfter(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	q, ok := rl.clients[client]
	if !ok {
		return 0
	}
	left := rl.window - time.Since(q.opened)
	if left <= 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for client, q := range rl.clients {
		if now.Sub(q.opened) > 2*rl.window {
			delete(rl.clients, client)
		}
	}
}

// clientKey identifies the requester: the first X-Forwarded-For entry
// when a proxy set one, otherwise the remote address without its port.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware answers 429 with a Retry-After header once a
// client exhausts its budget.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.Allow(key) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter(key)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
