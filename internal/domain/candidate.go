package domain

import (
	"strings"
	"time"
)

// CandidateStatus is the candidate's standing, independent of the stage.
type CandidateStatus string

const (
	CandidateStatusScheduled  CandidateStatus = "scheduled"
	CandidateStatusInProgress CandidateStatus = "in_progress"
	CandidateStatusValidated  CandidateStatus = "validated"
	CandidateStatusRejected   CandidateStatus = "rejected"
)

// CandidateStatuses lists every accepted status value.
var CandidateStatuses = []CandidateStatus{
	CandidateStatusScheduled,
	CandidateStatusInProgress,
	CandidateStatusValidated,
	CandidateStatusRejected,
}

// Valid reports enum membership.
func (s CandidateStatus) Valid() bool {
	for _, known := range CandidateStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseCandidateStatus normalizes user input into a status value.
func ParseCandidateStatus(raw string) (CandidateStatus, bool) {
	status := CandidateStatus(strings.ToLower(strings.TrimSpace(raw)))
	return status, status.Valid()
}

// Candidate is a person moving through the pipeline.
type Candidate struct {
	ID                 string
	UserID             string
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	Position           string
	Experience         string
	SalaryExpectation  string
	CVURL              *string
	CVOriginalFilename *string
	RecruiterID        *string
	StageID            *string
	Status             CandidateStatus
	LastInterviewAt    *time.Time
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FullName joins first and last name.
func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
