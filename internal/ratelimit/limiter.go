// Package ratelimit provides per-host token bucket rate limiting for
// CDN downloads.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter implements a per-host token bucket rate limiter. Each host
// gets its own bucket with the configured rate and burst, so hammering
// one CDN does not starve downloads from another. It is safe for
// concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64          // tokens per second
	burst   int              // max burst size (also initial token count)
	nowFunc func() time.Time // injectable clock for testing
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// NewLimiter creates a rate limiter with the given rate (requests/sec
// per host) and burst size. The burst size also serves as the initial
// number of tokens available. A rate of 0 or less disables limiting.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		nowFunc: time.Now,
	}
}

// Allow checks whether a request to host should proceed now.
func (l *Limiter) Allow(host string) bool {
	if l == nil || l.rate <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()

	b, ok := l.buckets[host]
	if !ok {
		// First request for this host: start with full burst
		b = &bucket{
			tokens:    float64(l.burst),
			lastCheck: now,
		}
		l.buckets[host] = b
	}

	// Refill tokens based on elapsed time
	elapsed := now.Sub(b.lastCheck).Seconds()
	if elapsed > 0 {
		b.tokens += l.rate * elapsed
		if b.tokens > float64(l.burst) {
			b.tokens = float64(l.burst)
		}
		b.lastCheck = now
	}

	if b.tokens < 1.0 {
		return false
	}

	b.tokens--
	return true
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	if l == nil || l.rate <= 0 {
		return nil
	}

	for !l.Allow(host) {
		// Poll at a fraction of the refill interval
		interval := time.Duration(float64(time.Second) / l.rate / 4)
		if interval < 5*time.Millisecond {
			interval = 5 * time.Millisecond
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil
}
