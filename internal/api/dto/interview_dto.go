package dto

import (
	"time"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// InterviewRequest payload for scheduling.
type InterviewRequest struct {
	CandidateID     string    `json:"candidate_id"`
	RecruiterID     *string   `json:"recruiter_id"`
	StageID         *string   `json:"stage_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
}

// InterviewStatusRequest payload.
type InterviewStatusRequest struct {
	Status domain.InterviewStatus `json:"status"`
}

// RescheduleRequest payload.
type RescheduleRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes *int      `json:"duration_minutes"`
}

// InterviewResponse exposes an interview.
type InterviewResponse struct {
	ID              string                 `json:"id"`
	CandidateID     string                 `json:"candidate_id"`
	CandidateName   string                 `json:"candidate_name"`
	RecruiterID     *string                `json:"recruiter_id"`
	RecruiterName   string                 `json:"recruiter_name,omitempty"`
	StageID         *string                `json:"stage_id"`
	ScheduledAt     time.Time              `json:"scheduled_at"`
	DurationMinutes int                    `json:"duration_minutes"`
	Notes           string                 `json:"notes"`
	Status          domain.InterviewStatus `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}
