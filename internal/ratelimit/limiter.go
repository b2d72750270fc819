// Package ratelimit throttles repeated attempts per key, such as logins per
// email and client address.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether another attempt for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// MemoryLimiter is a fixed-window limiter for single-instance deployments
// and tests. Expired windows are pruned at most once per window length.
type MemoryLimiter struct {
	mu         sync.Mutex
	limit      int
	window     time.Duration
	clock      func() time.Time
	windows    map[string]*fixedWindow
	lastPruned time.Time
}

type fixedWindow struct {
	start time.Time
	count int
}

// NewMemoryLimiter builds an in-process limiter.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		clock:   time.Now,
		windows: make(map[string]*fixedWindow),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	if l == nil || l.limit <= 0 || l.window <= 0 || key == "" {
		return true
	}
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPruned) >= l.window {
		l.prune(now)
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = &fixedWindow{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.limit
}

func (l *MemoryLimiter) prune(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
	l.lastPruned = now
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
