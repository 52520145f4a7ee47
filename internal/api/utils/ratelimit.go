package utils

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// RateLimiter tracks per-client token buckets keyed by IP address.
type RateLimiter struct {
	mu    sync.Mutex
	ips   map[string]*ipRateLimiter
	rate  rate.Limit
	burst int
}

type ipRateLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		ips:   make(map[string]*ipRateLimiter),
		rate:  r,
		burst: burst,
	}
}

// get returns the limiter for an IP, creating it on first sight.
func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.ips[ip]
	if !exists {
		entry = &ipRateLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// cleanup drops limiters for IPs inactive longer than maxIdle.
func (rl *RateLimiter) cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, entry := range rl.ips {
		if time.Since(entry.lastSeen) > maxIdle {
			delete(rl.ips, ip)
		}
	}
}

// RateLimitMiddleware returns a per-IP rate limiting middleware.
func RateLimitMiddleware(r rate.Limit, burst int) mux.MiddlewareFunc {
	rateLimiter := NewRateLimiter(r, burst)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rateLimiter.cleanup(30 * time.Minute)
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !rateLimiter.get(getIP(req)).Allow() {
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// getIP extracts the client address, preferring proxy headers.
func getIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
