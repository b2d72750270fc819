package dto

import (
	"time"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
	SessionID      string    `json:"session_id"`
	SessionTimeout int       `json:"session_timeout_seconds"`
}

// UserResponse exposes account fields.
type UserResponse struct {
	ID          string              `json:"id"`
	FirstName   string              `json:"first_name"`
	LastName    string              `json:"last_name"`
	Email       string              `json:"email"`
	Role        domain.Role         `json:"role"`
	Status      domain.UserStatus   `json:"status"`
	Permissions []domain.Permission `json:"permissions,omitempty"`
}

// PasswordChangeRequest payload for password change.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
