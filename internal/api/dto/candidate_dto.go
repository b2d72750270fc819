package dto

import (
	"time"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// CandidateCreateRequest payload.
type CandidateCreateRequest struct {
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Position          string  `json:"position"`
	Experience        string  `json:"experience"`
	SalaryExpectation string  `json:"salary_expectation"`
	Password          string  `json:"password"`
	RecruiterID       *string `json:"recruiter_id"`
	StageID           *string `json:"stage_id"`
	Status            *string `json:"status"`
}

// CandidateUpdateRequest payload for PATCH.
type CandidateUpdateRequest struct {
	FirstName         *string `json:"first_name"`
	LastName          *string `json:"last_name"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Position          *string `json:"position"`
	Experience        *string `json:"experience"`
	SalaryExpectation *string `json:"salary_expectation"`
	RecruiterID       *string `json:"recruiter_id"`
	ExpectedVersion   *int    `json:"expected_version"`
}

// TransitionRequest carries the optional optimistic concurrency token for
// lifecycle endpoints.
type TransitionRequest struct {
	ExpectedVersion *int   `json:"expected_version"`
	Status          string `json:"status"`
	StageID         string `json:"stage_id"`
}

// CommentRequest payload.
type CommentRequest struct {
	Body string `json:"body"`
}

// CandidateResponse exposes a candidate.
type CandidateResponse struct {
	ID                 string                 `json:"id"`
	UserID             string                 `json:"user_id"`
	FirstName          string                 `json:"first_name"`
	LastName           string                 `json:"last_name"`
	Email              string                 `json:"email"`
	Phone              string                 `json:"phone"`
	Position           string                 `json:"position"`
	Experience         string                 `json:"experience"`
	SalaryExpectation  string                 `json:"salary_expectation"`
	CVURL              *string                `json:"cv_url"`
	CVOriginalFilename *string                `json:"cv_original_filename"`
	RecruiterID        *string                `json:"recruiter_id"`
	StageID            *string                `json:"stage_id"`
	Status             domain.CandidateStatus `json:"status"`
	LastInterviewAt    *time.Time             `json:"last_interview_at"`
	Version            int                    `json:"version"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// HistoryResponse is one audit trail entry.
type HistoryResponse struct {
	ID         string                  `json:"id"`
	ActorID    *string                 `json:"actor_id"`
	Action     domain.TransitionAction `json:"action"`
	OldStageID *string                 `json:"old_stage_id"`
	NewStageID *string                 `json:"new_stage_id"`
	OldStatus  domain.CandidateStatus  `json:"old_status,omitempty"`
	NewStatus  domain.CandidateStatus  `json:"new_status"`
	CreatedAt  time.Time               `json:"created_at"`
}

// CommentResponse is one recruiter note.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorID   *string   `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
