// Package ratelimit caps how many extraction requests each caller may make
// per minute, independent of the completion vendor's own limits. Requests
// over the cap are rejected immediately, never queued.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// CallerLimiter keeps one token bucket per caller identity (burst = the
// per-minute cap, refill spread over the window), which gives the sliding
// behavior without a reset timestamp. Safe for concurrent use.
type CallerLimiter struct {
	mu     sync.Mutex
	m      map[string]*entry
	perMin int
	window time.Duration
}

func NewCallerLimiter(perMinute int) *CallerLimiter {
	return &CallerLimiter{
		m:      make(map[string]*entry),
		perMin: perMinute,
		window: time.Minute,
	}
}

// Allow reports whether the caller may make a request right now.
func (cl *CallerLimiter) Allow(caller string) bool {
	return cl.AllowAt(time.Now(), caller)
}

// AllowAt is Allow with an explicit clock, for tests that walk the window.
func (cl *CallerLimiter) AllowAt(now time.Time, caller string) bool {
	cl.mu.Lock()
	e, ok := cl.m[caller]
	if !ok {
		e = &entry{lim: rate.NewLimiter(rate.Limit(float64(cl.perMin)/cl.window.Seconds()), cl.perMin)}
		cl.m[caller] = e
		cl.prune(now)
	}
	e.lastSeen = now
	cl.mu.Unlock()

	return e.lim.AllowN(now, 1)
}

// prune drops callers idle for several windows. Caller holds cl.mu.
func (cl *CallerLimiter) prune(now time.Time) {
	cutoff := now.Add(-3 * cl.window)
	for k, e := range cl.m {
		if e.lastSeen.Before(cutoff) {
			delete(cl.m, k)
		}
	}
}
