package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// ErrSessionExpired is returned when a session has been idle past the window.
var ErrSessionExpired = errors.New("session expired")

// Tracker starts, checks and ends sessions against a Policy.
type Tracker struct {
	store  Store
	policy Policy
	clock  func() time.Time
}

// NewTracker builds a tracker over store.
func NewTracker(store Store, policy Policy) *Tracker {
	return &Tracker{store: store, policy: policy, clock: time.Now}
}

// Policy returns the configured policy.
func (t *Tracker) Policy() Policy {
	return t.policy
}

// Start opens a new session for the user.
func (t *Tracker) Start(ctx context.Context, userID string, role domain.Role) (*Context, error) {
	now := t.clock()
	sess := &Context{
		ID:           uuid.NewString(),
		UserID:       userID,
		Role:         role,
		StartedAt:    now,
		LastActivity: now,
	}
	if err := t.store.Save(ctx, sess, t.policy.Window); err != nil {
		return nil, err
	}
	return sess, nil
}

// Check validates the session and, when still valid, records activity.
// Expired sessions are removed.
func (t *Tracker) Check(ctx context.Context, id string) (*Context, error) {
	sess, err := t.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := t.clock()
	if sess.Expired(now, t.policy.Window) {
		_ = t.store.Delete(ctx, id)
		return nil, ErrSessionExpired
	}
	sess.Touch(now)
	if err := t.store.Refresh(ctx, sess, t.policy.Window); err != nil {
		return nil, err
	}
	return sess, nil
}

// End removes the session.
func (t *Tracker) End(ctx context.Context, id string) error {
	return t.store.Delete(ctx, id)
}
