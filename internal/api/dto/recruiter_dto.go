package dto

import "github.com/spec-kit/recruitment-service/internal/domain"

// RecruiterCreateRequest payload.
type RecruiterCreateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// RecruiterStatusRequest payload.
type RecruiterStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// PermissionsPayload mirrors the recruiter permission toggles.
type PermissionsPayload struct {
	ViewCandidates   bool `json:"view_candidates"`
	CreateCandidates bool `json:"create_candidates"`
	ModifyCandidates bool `json:"modify_candidates"`
	ViewInterviews   bool `json:"view_interviews"`
	CreateInterviews bool `json:"create_interviews"`
	ModifyInterviews bool `json:"modify_interviews"`
	ModifyStatuses   bool `json:"modify_statuses"`
	ModifyStages     bool `json:"modify_stages"`
}

// RecruiterResponse pairs an account with its permissions.
type RecruiterResponse struct {
	UserResponse
	Rights PermissionsPayload `json:"rights"`
}
