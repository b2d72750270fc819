package session

import (
	"time"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// Context is the explicit session state held for one logged-in user.
type Context struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Role         domain.Role `json:"role"`
	StartedAt    time.Time   `json:"started_at"`
	LastActivity time.Time   `json:"last_activity"`
}

// Touch records activity at now.
func (c *Context) Touch(now time.Time) {
	if now.After(c.LastActivity) {
		c.LastActivity = now
	}
}

// Expired reports whether the session is idle past window at now.
func (c *Context) Expired(now time.Time, window time.Duration) bool {
	return Expired(now, c.LastActivity, window)
}

// Remaining returns the time left before expiry.
func (c *Context) Remaining(now time.Time, window time.Duration) time.Duration {
	return Remaining(now, c.LastActivity, window)
}
