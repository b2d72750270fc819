// Package pipeline holds the candidate stage/status lifecycle rules.
//
// Every operation is pure: it reads a candidate State and a stage catalog and
// returns the Transition to apply. Persistence and auditing are left to the
// caller.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

var (
	// ErrStageNotFound means a referenced stage does not exist or is inactive.
	ErrStageNotFound = errors.New("stage not found")
	// ErrEmptyCatalog means there are no active stages at all.
	ErrEmptyCatalog = fmt.Errorf("%w: no active stages configured", ErrStageNotFound)
	// ErrInvalidStatus means a status outside the fixed enumeration was requested.
	ErrInvalidStatus = errors.New("invalid candidate status")
)

// State is the (stage, status) pair the engine reasons about.
type State struct {
	StageID *string
	Status  domain.CandidateStatus
}

// StateOf extracts the lifecycle state of a candidate.
func StateOf(c *domain.Candidate) State {
	return State{StageID: c.StageID, Status: c.Status}
}

// Transition describes a computed state change.
type Transition struct {
	Action domain.TransitionAction
	From   State
	To     State
}

// Changed reports whether the transition alters stage or status.
func (t Transition) Changed() bool {
	return t.From.Status != t.To.Status || !sameStage(t.From.StageID, t.To.StageID)
}

// StageChanged reports whether the stage reference moves.
func (t Transition) StageChanged() bool {
	return !sameStage(t.From.StageID, t.To.StageID)
}

// Apply writes the target state onto c.
func (t Transition) Apply(c *domain.Candidate) {
	c.StageID = t.To.StageID
	c.Status = t.To.Status
}

// Advance moves a candidate to the next active stage by order key, or marks
// them validated when they already sit on the last active stage.
func Advance(state State, catalog []domain.Stage) (Transition, error) {
	active := ActiveCatalog(catalog)
	if len(active) == 0 {
		return Transition{}, ErrEmptyCatalog
	}
	if state.StageID == nil {
		return Transition{}, fmt.Errorf("%w: candidate has no current stage", ErrStageNotFound)
	}
	current, ok := FindActive(active, *state.StageID)
	if !ok {
		return Transition{}, fmt.Errorf("%w: current stage %s is not active, set the stage manually", ErrStageNotFound, *state.StageID)
	}

	t := Transition{Action: domain.ActionAdvance, From: state, To: state}
	if next, ok := NextStage(active, current); ok {
		id := next.ID
		t.To.StageID = &id
		t.To.Status = domain.CandidateStatusInProgress
		return t, nil
	}
	t.To.Status = domain.CandidateStatusValidated
	return t, nil
}

// Reject marks a candidate rejected without touching the stage.
func Reject(state State) Transition {
	t := Transition{Action: domain.ActionReject, From: state, To: state}
	t.To.Status = domain.CandidateStatusRejected
	return t
}

// Reopen overrides the status. Only enum membership is checked.
func Reopen(state State, status domain.CandidateStatus) (Transition, error) {
	if !status.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	t := Transition{Action: domain.ActionReopen, From: state, To: state}
	t.To.Status = status
	return t, nil
}

// SetStage jumps to any active stage regardless of order. Status is untouched.
func SetStage(state State, stageID string, catalog []domain.Stage) (Transition, error) {
	stage, ok := FindActive(catalog, stageID)
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s", ErrStageNotFound, stageID)
	}
	id := stage.ID
	t := Transition{Action: domain.ActionSetStage, From: state, To: state}
	t.To.StageID = &id
	return t, nil
}

func sameStage(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
