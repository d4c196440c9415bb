package server

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter throttles scan requests per client: a fixed-window
// per-minute request limit plus a daily upload byte quota.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerMinute int
	maxBytesPerDay    int64

	clients map[string]*clientUsage
}

type clientUsage struct {
	minuteStart time.Time
	minuteCount int
	dayStart    time.Time
	dayBytes    int64
}

// NewRateLimiter creates a rate limiter. A zero limit disables the
// corresponding check.
func NewRateLimiter(requestsPerMinute int, maxBytesPerDay int64) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		maxBytesPerDay:    maxBytesPerDay,
		clients:           make(map[string]*clientUsage),
	}
}

// Allow checks whether a request uploading dataSize bytes is permitted
// for the client and records it if so.
func (rl *RateLimiter) Allow(clientID string, dataSize int64) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	usage, ok := rl.clients[clientID]
	if !ok {
		usage = &clientUsage{minuteStart: now, dayStart: now}
		rl.clients[clientID] = usage
	}

	if now.Sub(usage.minuteStart) >= time.Minute {
		usage.minuteStart = now
		usage.minuteCount = 0
	}
	if now.Sub(usage.dayStart) >= 24*time.Hour {
		usage.dayStart = now
		usage.dayBytes = 0
	}

	if rl.requestsPerMinute > 0 && usage.minuteCount >= rl.requestsPerMinute {
		return &RateLimitError{
			Limit:      rl.requestsPerMinute,
			RetryAfter: time.Minute - now.Sub(usage.minuteStart),
		}
	}
	if rl.maxBytesPerDay > 0 && usage.dayBytes+dataSize > rl.maxBytesPerDay {
		return &QuotaExceededError{
			Limit:  rl.maxBytesPerDay,
			Used:   usage.dayBytes,
			Resets: usage.dayStart.Add(24 * time.Hour),
		}
	}

	usage.minuteCount++
	usage.dayBytes += dataSize
	return nil
}

// RateLimitError reports too many requests in the current window.
type RateLimitError struct {
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (limit: %d/min, retry after: %v)", e.Limit, e.RetryAfter)
}

// QuotaExceededError reports the daily upload quota being exhausted.
type QuotaExceededError struct {
	Limit  int64
	Used   int64
	Resets time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("upload quota exceeded (used: %d, limit: %d, resets: %s)",
		e.Used, e.Limit, e.Resets.Format(time.RFC3339))
}
