package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-client sliding window.
type RateLimiter struct {
	hits       map[string][]time.Time
	maxRequest int
	window     time.Duration
	now        func() time.Time
	mu         sync.Mutex
}

func NewRateLimiter(maxRequest int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		hits:       make(map[string][]time.Time),
		maxRequest: maxRequest,
		window:     window,
		now:        time.Now,
	}
}

// Allow records a hit for key and reports whether it fits in the window,
// along with the remaining allowance.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	hits := rl.hits[key]
	if len(hits) >= rl.maxRequest {
		return false, 0
	}
	rl.hits[key] = append(hits, now)
	return true, rl.maxRequest - len(hits) - 1
}

// cleanup must be called with rl.mu held.
func (rl *RateLimiter) cleanup(now time.Time) {
	for key, hits := range rl.hits {
		valid := hits[:0]
		for _, t := range hits {
			if now.Sub(t) < rl.window {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.hits[key] = valid
		} else {
			delete(rl.hits, key)
		}
	}
}

// Middleware rejects clients over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, remaining := rl.Allow(ip)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequest))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(rl.now().Add(rl.window).Unix(), 10))

		if !allowed {
			logger.WarnWithContext(c.Request.Context(), "Rate limit exceeded").
				String("client_ip", ip).
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				Int("max_requests", rl.maxRequest).
				Log()
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, constants.BuildErrorResponse(constants.MsgTooManyRequests, nil))
			return
		}

		c.Next()
	}
}

// RateLimit builds a limiter and returns its middleware.
func RateLimit(maxRequest int, window time.Duration) gin.HandlerFunc {
	return NewRateLimiter(maxRequest, window).Middleware()
}
