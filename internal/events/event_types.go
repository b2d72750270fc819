package events

import (
	"time"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCandidateCreated       EventType = "candidate_created"
	EventCandidateStageChanged  EventType = "candidate_stage_changed"
	EventCandidateStatusChanged EventType = "candidate_status_changed"
	EventCandidateCommentAdded  EventType = "candidate_comment_added"
	EventInterviewScheduled     EventType = "interview_scheduled"
	EventInterviewStatusChanged EventType = "interview_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID *string     `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	CandidateID string      `json:"candidate_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// CandidateCreatedPayload payload.
type CandidateCreatedPayload struct {
	Email    string                 `json:"email"`
	Position string                 `json:"position"`
	StageID  *string                `json:"stage_id,omitempty"`
	Status   domain.CandidateStatus `json:"status"`
}

// CandidateTransitionPayload is shared by stage and status change events.
type CandidateTransitionPayload struct {
	Action     domain.TransitionAction `json:"action"`
	OldStageID *string                 `json:"old_stage_id,omitempty"`
	NewStageID *string                 `json:"new_stage_id,omitempty"`
	OldStatus  domain.CandidateStatus  `json:"old_status"`
	NewStatus  domain.CandidateStatus  `json:"new_status"`
	Version    int                     `json:"version"`
}

// CandidateCommentAddedPayload payload.
type CandidateCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

// InterviewScheduledPayload payload.
type InterviewScheduledPayload struct {
	InterviewID string    `json:"interview_id"`
	RecruiterID *string   `json:"recruiter_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// InterviewStatusChangedPayload payload.
type InterviewStatusChangedPayload struct {
	InterviewID string                 `json:"interview_id"`
	OldStatus   domain.InterviewStatus `json:"old_status"`
	NewStatus   domain.InterviewStatus `json:"new_status"`
	ScheduledAt time.Time              `json:"scheduled_at"`
}
