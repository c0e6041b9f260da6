// Package ratelimit implements a per-key fixed-window request counter
// used to throttle bot commands.
package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// bucket tracks request counts for a single key within the current window.
type bucket struct {
	windowStart time.Time
	count       uint32
}

// Limiter admits or rejects requests per key, allowing at most
// maxRequests within each fixed window. Buckets reset lazily on the
// first observation after the window rolls over.
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	maxRequests uint32
	window      time.Duration
	clock       clockwork.Clock
}

// New creates a Limiter allowing maxRequests per window for each key.
func New(maxRequests uint32, window time.Duration) *Limiter {
	return NewWithClock(maxRequests, window, clockwork.NewRealClock())
}

// NewWithClock is New with an injectable clock.
func NewWithClock(maxRequests uint32, window time.Duration, clock clockwork.Clock) *Limiter {
	return &Limiter{
		buckets:     make(map[string]*bucket),
		maxRequests: maxRequests,
		window:      window,
		clock:       clock,
	}
}

// Allow reports whether a request for key is admitted. Admitted
// requests count against the key's window; rejected requests do not
// change any state.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	b, ok := l.buckets[key]
	if !ok {
		l.buckets[key] = &bucket{windowStart: now, count: 1}
		return true
	}
	if now.Sub(b.windowStart) > l.window {
		b.windowStart = now
		b.count = 1
		return true
	}
	if b.count >= l.maxRequests {
		return false
	}
	b.count++
	return true
}

// Prune drops buckets whose window ended before the given age cutoff.
// Not required for correctness; callers may invoke it periodically to
// bound memory.
func (l *Limiter) Prune(olderThan time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	for key, b := range l.buckets {
		if now.Sub(b.windowStart) > olderThan {
			delete(l.buckets, key)
		}
	}
}
