package middleware

import (
	"sync"
	"time"
)

// RateLimiter implements a simple in-memory fixed-window limiter, keyed
// per player and per client IP.
type RateLimiter struct {
	playerLimits map[uint]*windowCount
	ipLimits     map[string]*windowCount
	mu           sync.Mutex

	playerMaxRequests int
	ipMaxRequests     int
	window            time.Duration
}

type windowCount struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop.
func NewRateLimiter(playerMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		playerLimits:      make(map[uint]*windowCount),
		ipLimits:          make(map[string]*windowCount),
		playerMaxRequests: playerMaxRequests,
		ipMaxRequests:     ipMaxRequests,
		window:            window,
	}

	go rl.cleanup()

	return rl
}

// AllowPlayer checks whether the player is within their request budget.
func (rl *RateLimiter) AllowPlayer(playerID uint) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	limit, exists := rl.playerLimits[playerID]
	if !exists || now.After(limit.resetTime) {
		rl.playerLimits[playerID] = &windowCount{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if limit.requests >= rl.playerMaxRequests {
		return false
	}

	limit.requests++
	return true
}

// AllowIP checks whether the client address is within its request budget.
func (rl *RateLimiter) AllowIP(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	limit, exists := rl.ipLimits[ip]
	if !exists || now.After(limit.resetTime) {
		rl.ipLimits[ip] = &windowCount{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if limit.requests >= rl.ipMaxRequests {
		return false
	}

	limit.requests++
	return true
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		rl.mu.Lock()
		for id, limit := range rl.playerLimits {
			if now.After(limit.resetTime) {
				delete(rl.playerLimits, id)
			}
		}
		for ip, limit := range rl.ipLimits {
			if now.After(limit.resetTime) {
				delete(rl.ipLimits, ip)
			}
		}
		rl.mu.Unlock()
	}
}
