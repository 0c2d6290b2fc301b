// Package ratelimit provides the throttle collaborator consumed by the vote
// ledger: a fixed-window counter per (scope, caller) pair with independently
// configurable thresholds per scope.
package ratelimit

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ballotline/ballotline-api/internal/logger"
)

// Window is the throttle accounting period
const Window = time.Minute

type bucket struct {
	windowStart time.Time
	count       int
}

// Limiter answers allow/deny plus a retry-after duration per scope and
// caller key. A scope without a configured threshold is unlimited.
type Limiter struct {
	mu      sync.Mutex
	limits  map[string]int
	buckets map[string]*bucket
	now     func() time.Time
	log     *log.Logger
}

// New creates a limiter with per-minute thresholds keyed by scope
func New(limits map[string]int) *Limiter {
	return &Limiter{
		limits:  limits,
		buckets: make(map[string]*bucket),
		now:     time.Now,
		log:     logger.Throttle(),
	}
}

// Allow reports whether the caller identified by key may act under the given
// scope, and how long to wait when denied
func (l *Limiter) Allow(scope, key string) (bool, time.Duration) {
	limit, limited := l.limits[scope]
	if !limited || limit <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	id := scope + "|" + key

	b, ok := l.buckets[id]
	if !ok || now.Sub(b.windowStart) >= Window {
		l.buckets[id] = &bucket{windowStart: now, count: 1}
		l.pruneLocked(now)
		return true, 0
	}

	if b.count < limit {
		b.count++
		return true, 0
	}

	retryAfter := Window - now.Sub(b.windowStart)
	l.log.Debug("request throttled", "scope", scope, "key", key, "retry_after", retryAfter)
	return false, retryAfter
}

// pruneLocked drops buckets whose window expired. Called with the lock held
// on the new-bucket path so the map does not grow without bound.
func (l *Limiter) pruneLocked(now time.Time) {
	if len(l.buckets) < 4096 {
		return
	}
	for id, b := range l.buckets {
		if now.Sub(b.windowStart) >= Window {
			delete(l.buckets, id)
		}
	}
}
