package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ideahub-dev/ideahub/internal/domain"
)

// UserRateLimiter keeps one token bucket per identity (user id or client IP).
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewUserRateLimiter(rps float64, burst int) *UserRateLimiter {
	return &UserRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *UserRateLimiter) Allow(identity string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters[identity]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[identity] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

// RateLimit throttles per identity. Admins are exempt.
func RateLimit(rl *UserRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := GetUserFromContext(r); user != nil && user.Role == domain.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			if !rl.Allow(identity(r)) {
				http.Error(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func identity(r *http.Request) string {
	if user := GetUserFromContext(r); user != nil {
		return fmt.Sprintf("user_%d", user.Id)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
