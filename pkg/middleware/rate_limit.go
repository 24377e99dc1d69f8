package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	traits "github.com/shadowbane/weather-alert/pkg/traits/controller-traits"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
// Idle visitors are forgotten after ttl.
func NewRateLimiter(perMinute, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     burst,
		ttl:       ttl,
		lastSweep: time.Now(),
	}
}

// Allow reports whether a request from ip may proceed.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > l.ttl {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.Allow()
}

// Limit wraps an httprouter handle. A nil limiter disables throttling.
func Limit(l *RateLimiter, next httprouter.Handle) httprouter.Handle {
	if l == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.Allow(ip) {
			zap.S().Warnf("Submission rate limit exceeded for %s", ip)
			traits.WriteErrorResponse(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}

		next(w, r, p)
	}
}
