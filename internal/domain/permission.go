package domain

import "time"

// Permission is a single capability that can be granted to a recruiter.
type Permission string

const (
	PermViewCandidates   Permission = "view_candidates"
	PermCreateCandidates Permission = "create_candidates"
	PermModifyCandidates Permission = "modify_candidates"
	PermViewInterviews   Permission = "view_interviews"
	PermCreateInterviews Permission = "create_interviews"
	PermModifyInterviews Permission = "modify_interviews"
	PermModifyStatuses   Permission = "modify_statuses"
	PermModifyStages     Permission = "modify_stages"
)

// RecruiterPermissions holds the permission toggles for one recruiter.
type RecruiterPermissions struct {
	UserID           string
	ViewCandidates   bool
	CreateCandidates bool
	ModifyCandidates bool
	ViewInterviews   bool
	CreateInterviews bool
	ModifyInterviews bool
	ModifyStatuses   bool
	ModifyStages     bool
	UpdatedAt        time.Time
}

// DefaultRecruiterPermissions are granted to newly created recruiters.
func DefaultRecruiterPermissions(userID string) RecruiterPermissions {
	return RecruiterPermissions{
		UserID:         userID,
		ViewCandidates: true,
		ViewInterviews: true,
	}
}

// Allows reports whether the toggle for perm is set.
func (p *RecruiterPermissions) Allows(perm Permission) bool {
	if p == nil {
		return false
	}
	switch perm {
	case PermViewCandidates:
		return p.ViewCandidates
	case PermCreateCandidates:
		return p.CreateCandidates
	case PermModifyCandidates:
		return p.ModifyCandidates
	case PermViewInterviews:
		return p.ViewInterviews
	case PermCreateInterviews:
		return p.CreateInterviews
	case PermModifyInterviews:
		return p.ModifyInterviews
	case PermModifyStatuses:
		return p.ModifyStatuses
	case PermModifyStages:
		return p.ModifyStages
	}
	return false
}

// Granted lists the permissions currently enabled.
func (p *RecruiterPermissions) Granted() []Permission {
	all := []Permission{
		PermViewCandidates, PermCreateCandidates, PermModifyCandidates,
		PermViewInterviews, PermCreateInterviews, PermModifyInterviews,
		PermModifyStatuses, PermModifyStages,
	}
	granted := make([]Permission, 0, len(all))
	for _, perm := range all {
		if p.Allows(perm) {
			granted = append(granted, perm)
		}
	}
	return granted
}
