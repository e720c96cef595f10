package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a tokens-per-minute budget over a fixed one-minute window.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a TokenLimiter with the given tokens-per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxPerMinute,
		windowStart: time.Now(),
	}
}

// Wait blocks until the given number of tokens fits in the current window.
// A request larger than the whole budget is admitted alone once the window resets.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if now.Sub(l.windowStart) >= time.Minute {
			l.used = 0
			l.windowStart = now
		}
		if l.used+tokens <= l.maxPerMin || l.used == 0 {
			l.used += tokens
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - now.Sub(l.windowStart)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// GetRemaining returns the unused token budget in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.windowStart) >= time.Minute {
		return l.maxPerMin
	}
	remaining := l.maxPerMin - l.used
	if remaining < 0 {
		return 0
	}
	return remaining
}
