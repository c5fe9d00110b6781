package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/chat_app/pkg/errors"
	"github.com/mroshb/chat_app/pkg/logger"
)

// RateLimiter implements a simple in-memory fixed window rate limiter keyed
// by caller identity and by client IP.
type RateLimiter struct {
	userLimits map[string]*window
	ipLimits   map[string]*window
	mu         sync.Mutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration

	stop chan struct{}
	once sync.Once
}

type window struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(userMaxRequests, ipMaxRequests int, win time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[string]*window),
		ipLimits:        make(map[string]*window),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          win,
		stop:            make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// CheckUserLimit checks if the caller has exceeded its rate limit
func (rl *RateLimiter) CheckUserLimit(externalID string) bool {
	return rl.check(rl.userLimits, externalID, rl.userMaxRequests)
}

// CheckIPLimit checks if IP has exceeded rate limit
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	return rl.check(rl.ipLimits, ip, rl.ipMaxRequests)
}

func (rl *RateLimiter) check(limits map[string]*window, key string, max int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	limit, exists := limits[key]
	if !exists || now.After(limit.resetTime) {
		limits[key] = &window{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if limit.requests >= max {
		return false
	}

	limit.requests++
	return true
}

// GetUserRemaining returns remaining requests for the caller
func (rl *RateLimiter) GetUserRemaining(externalID string) int {
	return rl.remaining(rl.userLimits, externalID, rl.userMaxRequests)
}

// GetIPRemaining returns remaining requests for IP
func (rl *RateLimiter) GetIPRemaining(ip string) int {
	return rl.remaining(rl.ipLimits, ip, rl.ipMaxRequests)
}

func (rl *RateLimiter) remaining(limits map[string]*window, key string, max int) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit, exists := limits[key]
	if !exists || time.Now().After(limit.resetTime) {
		return max
	}

	remaining := max - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Middleware limits by client IP, and by identity once Identity has run.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.CheckIPLimit(ip) {
			logger.Warn("IP rate limit exceeded", "ip", ip)
			abort(c, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "too many requests")
			return
		}

		if externalID := ExternalID(c); externalID != "" && !rl.CheckUserLimit(externalID) {
			logger.Warn("User rate limit exceeded", "external_id", externalID)
			abort(c, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "too many requests")
			return
		}

		c.Next()
	}
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := time.Now()
		for key, limit := range rl.userLimits {
			if now.After(limit.resetTime) {
				delete(rl.userLimits, key)
			}
		}
		for key, limit := range rl.ipLimits {
			if now.After(limit.resetTime) {
				delete(rl.ipLimits, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[string]*window)
	rl.ipLimits = make(map[string]*window)
}
