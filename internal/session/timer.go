// Package session tracks authenticated sessions and expires them after a
// period of inactivity.
package session

import "time"

// DefaultWindow is the inactivity window used when none is configured.
const DefaultWindow = 30 * time.Minute

// DefaultCheckInterval is how often idle sessions are swept.
const DefaultCheckInterval = time.Minute

// Policy holds the inactivity window and the sweep cadence.
type Policy struct {
	Window        time.Duration
	CheckInterval time.Duration
}

// NewPolicy builds a Policy, substituting defaults for non-positive values.
func NewPolicy(window, checkInterval time.Duration) Policy {
	if window <= 0 {
		window = DefaultWindow
	}
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}
	return Policy{Window: window, CheckInterval: checkInterval}
}

// Expired reports whether a session whose last activity was lastActivity is
// expired at now.
func Expired(now, lastActivity time.Time, window time.Duration) bool {
	return now.Sub(lastActivity) >= window
}

// Remaining returns how long the session stays valid, never negative.
func Remaining(now, lastActivity time.Time, window time.Duration) time.Duration {
	left := window - now.Sub(lastActivity)
	if left < 0 {
		return 0
	}
	return left
}
