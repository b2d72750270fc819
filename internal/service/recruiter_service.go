package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/auth"
	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/repository"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

// RecruiterService lets administrators manage recruiter accounts.
type RecruiterService struct {
	users       repository.UserRepository
	permissions repository.PermissionRepository
	bcryptCost  int
	logger      *zap.Logger
}

// RecruiterDependencies bundles collaborators for the recruiter service.
type RecruiterDependencies struct {
	UserRepo       repository.UserRepository
	PermissionRepo repository.PermissionRepository
	Logger         *zap.Logger
}

// RecruiterCreateInput describes a new recruiter.
type RecruiterCreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Recruiter pairs an account with its permission toggles.
type Recruiter struct {
	User        domain.User
	Permissions domain.RecruiterPermissions
}

// NewRecruiterService constructs the service.
func NewRecruiterService(cfg config.Config, deps RecruiterDependencies) *RecruiterService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecruiterService{
		users:       deps.UserRepo,
		permissions: deps.PermissionRepo,
		bcryptCost:  cfg.Auth.BcryptCost,
		logger:      logger,
	}
}

// List returns every recruiter with permissions.
func (s *RecruiterService) List(ctx context.Context) ([]Recruiter, error) {
	users, err := s.users.ListByRole(ctx, domain.RoleRecruiter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result := make([]Recruiter, 0, len(users))
	for _, user := range users {
		perms, err := s.loadPermissions(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, Recruiter{User: user, Permissions: *perms})
	}
	return result, nil
}

// Create provisions a recruiter with default permissions.
func (s *RecruiterService) Create(ctx context.Context, input RecruiterCreateInput) (*Recruiter, error) {
	user := &domain.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     normalizeEmail(input.Email),
		Role:      domain.RoleRecruiter,
		Status:    domain.UserStatusActive,
	}
	if user.FirstName == "" || user.LastName == "" {
		return nil, apperrors.NewValidationError("first_name and last_name are required", nil)
	}
	if !validEmail(user.Email) {
		return nil, apperrors.NewValidationError("valid email is required", map[string]any{"email": user.Email})
	}
	if !auth.PasswordAcceptable(input.Password) {
		return nil, apperrors.NewValidationError("password does not meet requirements", map[string]any{"min_length": auth.MinPasswordLength})
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	perms := domain.DefaultRecruiterPermissions(user.ID)
	if err := s.permissions.Upsert(ctx, &perms); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("recruiter created", zap.String("user_id", user.ID))
	return &Recruiter{User: *user, Permissions: perms}, nil
}

// SetStatus enables or disables a recruiter account. Disabled accounts are
// refused on their next request.
func (s *RecruiterService) SetStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown account status", map[string]any{"status": status})
	}
	user, err := s.getRecruiter(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Permissions returns the toggles for a recruiter.
func (s *RecruiterService) Permissions(ctx context.Context, id string) (*domain.RecruiterPermissions, error) {
	if _, err := s.getRecruiter(ctx, id); err != nil {
		return nil, err
	}
	return s.loadPermissions(ctx, id)
}

// SetPermissions replaces the toggles for a recruiter.
func (s *RecruiterService) SetPermissions(ctx context.Context, id string, perms domain.RecruiterPermissions) (*domain.RecruiterPermissions, error) {
	if _, err := s.getRecruiter(ctx, id); err != nil {
		return nil, err
	}
	perms.UserID = id
	if err := s.permissions.Upsert(ctx, &perms); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("recruiter permissions updated", zap.String("user_id", id))
	return &perms, nil
}

// Delete removes a recruiter account.
func (s *RecruiterService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id, domain.RoleRecruiter); err != nil {
		return notFoundOr(err, "recruiter", id)
	}
	return nil
}

func (s *RecruiterService) getRecruiter(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "recruiter", id)
	}
	if user.Role != domain.RoleRecruiter {
		return nil, apperrors.NewNotFound("recruiter", map[string]any{"id": id})
	}
	return user, nil
}

func (s *RecruiterService) loadPermissions(ctx context.Context, id string) (*domain.RecruiterPermissions, error) {
	perms, err := s.permissions.Get(ctx, id)
	if err == nil {
		return perms, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := domain.DefaultRecruiterPermissions(id)
		return &defaults, nil
	}
	return nil, apperrors.MapError(err)
}
