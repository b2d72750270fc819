package domain

import "time"

// InterviewStatus enumerates the lifecycle of a scheduled interview.
type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "scheduled"
	InterviewStatusCompleted   InterviewStatus = "completed"
	InterviewStatusCancelled   InterviewStatus = "cancelled"
	InterviewStatusRescheduled InterviewStatus = "rescheduled"
)

// Valid reports enum membership.
func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewStatusScheduled, InterviewStatusCompleted, InterviewStatusCancelled, InterviewStatusRescheduled:
		return true
	}
	return false
}

// Interview links a candidate and a recruiter to a time slot.
type Interview struct {
	ID              string
	CandidateID     string
	RecruiterID     *string
	StageID         *string
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           string
	Status          InterviewStatus
	CandidateName   string
	RecruiterName   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
