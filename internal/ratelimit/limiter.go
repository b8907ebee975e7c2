// Package ratelimit provides per-endpoint sliding-window admission control.
//
// Each endpoint key tracks the instants of past admissions inside a trailing
// window. Entries age out continuously rather than resetting at window
// boundaries, so a burst that filled the window frees capacity one admission
// at a time. A denied admission leaves no trace: it neither consumes capacity
// nor extends the window.
//
// Usage:
//
//	limiter := ratelimit.New(10, time.Minute)
//	if !limiter.Allow("/api/v1/check-sanctions") {
//	    // fail fast, do not retry
//	}
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits at most limit requests per key within a sliding window.
// Safe for concurrent use; the evict-check-append sequence is atomic per key.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*slidingWindow
}

// slidingWindow holds the admission instants for one endpoint key.
type slidingWindow struct {
	admissions []time.Time
}

func (sw *slidingWindow) evictExpired(cutoff time.Time) {
	i := 0
	for ; i < len(sw.admissions); i++ {
		if sw.admissions[i].After(cutoff) {
			break
		}
	}
	sw.admissions = sw.admissions[i:]
}

// Option configures a Limiter instance.
type Option func(*Limiter)

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter admitting limit requests per window for each key.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*slidingWindow),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a request for key is admitted. On admission the
// current instant is recorded against the key; on denial nothing changes.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	sw, ok := l.windows[key]
	if !ok {
		sw = &slidingWindow{}
		l.windows[key] = sw
	}

	now := l.now()
	sw.evictExpired(now.Add(-l.window))

	if len(sw.admissions) >= l.limit {
		return false
	}

	sw.admissions = append(sw.admissions, now)
	return true
}

// Count returns the number of admissions currently inside the window for key.
func (l *Limiter) Count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	sw, ok := l.windows[key]
	if !ok {
		return 0
	}
	sw.evictExpired(l.now().Add(-l.window))
	return len(sw.admissions)
}

// Reset clears all tracked admissions for every key.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string]*slidingWindow)
}
