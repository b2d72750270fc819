package domain

import "time"

// CandidateComment is a recruiter note attached to a candidate.
type CandidateComment struct {
	ID          string
	CandidateID string
	AuthorID    *string
	AuthorName  string
	Body        string
	CreatedAt   time.Time
}
