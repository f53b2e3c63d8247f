// Package ratelimit implements a fixed-window request counter keyed by
// an arbitrary string, held entirely in process memory.
//
// The window is fixed, not sliding: every counter resets wholesale when
// its window expires, so a client can burst up to twice the limit
// across a window boundary. That trade-off is intentional and kept for
// simplicity; callers that need smoother shaping should front this with
// an external limiter.
package ratelimit

import (
	"sync"
	"time"
)

// Result describes the outcome of a single limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the number of seconds (rounded up, minimum 1)
// until the window resets, for use in a Retry-After header.
func (r Result) RetryAfter(now time.Time) int {
	secs := int((r.ResetAt.Sub(now) + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

type record struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per key within fixed windows. The zero value
// is not usable; construct with New. All methods are safe for
// concurrent use: the read-modify-write on each counter happens under a
// single mutex so parallel bursts cannot undercount.
type Limiter struct {
	mu      sync.Mutex
	records map[string]record
	now     func() time.Time
}

// New returns an empty Limiter that uses the wall clock.
func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty Limiter that reads time from now.
// Tests use this to step through windows deterministically.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		records: make(map[string]record),
		now:     now,
	}
}

// Check records one request against key and reports whether it is
// within maxRequests per window. A key with no record, or whose window
// has expired, starts a fresh window. A denied request does not extend
// or reset the window.
func (l *Limiter) Check(key string, maxRequests int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	rec, ok := l.records[key]
	if !ok || now.After(rec.resetAt) {
		rec = record{count: 1, resetAt: now.Add(window)}
		l.records[key] = rec
		return Result{Allowed: true, Limit: maxRequests, Remaining: maxRequests - 1, ResetAt: rec.resetAt}
	}
	if rec.count >= maxRequests {
		return Result{Allowed: false, Limit: maxRequests, Remaining: 0, ResetAt: rec.resetAt}
	}
	rec.count++
	l.records[key] = rec
	return Result{Allowed: true, Limit: maxRequests, Remaining: maxRequests - rec.count, ResetAt: rec.resetAt}
}

// Sweep drops records whose window has expired. Stale keys are
// harmless (they are overwritten on next use) and the key space is
// bounded by observed client IPs, so sweeping is optional hardening
// rather than part of the contract.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, rec := range l.records {
		if now.After(rec.resetAt) {
			delete(l.records, key)
		}
	}
}

// Len reports the number of tracked keys, swept or not.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
