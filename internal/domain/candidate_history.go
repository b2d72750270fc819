package domain

import "time"

// TransitionAction names how a candidate's stage or status changed.
type TransitionAction string

const (
	ActionCreated  TransitionAction = "created"
	ActionAdvance  TransitionAction = "advance"
	ActionReject   TransitionAction = "reject"
	ActionReopen   TransitionAction = "reopen"
	ActionSetStage TransitionAction = "set_stage"
	ActionUpdate   TransitionAction = "update"
)

// CandidateHistory is an immutable audit trail entry for a candidate.
type CandidateHistory struct {
	ID          string
	CandidateID string
	ActorID     *string
	Action      TransitionAction
	OldStageID  *string
	NewStageID  *string
	OldStatus   CandidateStatus
	NewStatus   CandidateStatus
	CreatedAt   time.Time
}
