package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/auth"
	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/ratelimit"
	"github.com/spec-kit/recruitment-service/internal/repository"
	"github.com/spec-kit/recruitment-service/internal/session"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

// AuthService coordinates login, session and password flows.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	sessions   *session.Tracker
	limiter    ratelimit.Limiter
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Sessions          *session.Tracker
	Limiter           ratelimit.Limiter
	Logger            *zap.Logger
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User    *domain.User
	Token   string
	Meta    domain.Token
	Session *session.Context
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		sessions:   deps.Sessions,
		limiter:    deps.Limiter,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates any role and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, "login:"+email+"|"+clientIP) {
		return nil, apperrors.NewRateLimited("too many login attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewForbidden("account disabled")
	}

	sess, err := s.sessions.Start(ctx, user.ID, user.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	meta, token, err := s.tokenMgr.GenerateToken(user.ID, user.Role, sess.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{User: user, Token: token, Meta: meta, Session: sess}, nil
}

// Logout ends the server-side session so the token stops working.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.End(ctx, sessionID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if !auth.PasswordAcceptable(newPassword) {
		return apperrors.NewValidationError("password does not meet requirements", map[string]any{"min_length": auth.MinPasswordLength})
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("current password is incorrect")
	}
	return s.storePassword(ctx, user, newPassword)
}

// RequestPasswordReset persists a reset token. Unknown emails yield nil
// without error so callers cannot probe accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*domain.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}

	value, err := auth.RandomToken(32)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("password reset requested", zap.String("user_id", user.ID))
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if !auth.PasswordAcceptable(newPassword) {
		return apperrors.NewValidationError("password does not meet requirements", map[string]any{"min_length": auth.MinPasswordLength})
	}
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("reset token is invalid", nil)
		}
		return apperrors.MapError(err)
	}
	if !token.Usable(s.now()) {
		return apperrors.NewValidationError("reset token expired or used", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		if errors.Is(err, repository.ErrResetTokenConsumed) {
			return apperrors.NewValidationError("reset token expired or used", nil)
		}
		return apperrors.MapError(err)
	}
	return s.storePassword(ctx, user, newPassword)
}

// CreateAdmin provisions an administrator account.
func (s *AuthService) CreateAdmin(ctx context.Context, firstName, lastName, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, apperrors.NewValidationError("valid email is required", nil)
	}
	if !auth.PasswordAcceptable(password) {
		return nil, apperrors.NewValidationError("password does not meet requirements", map[string]any{"min_length": auth.MinPasswordLength})
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SetPassword overwrites the password for the account with email.
func (s *AuthService) SetPassword(ctx context.Context, email, password string) error {
	if !auth.PasswordAcceptable(password) {
		return apperrors.NewValidationError("password does not meet requirements", map[string]any{"min_length": auth.MinPasswordLength})
	}
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return apperrors.MapError(err)
	}
	return s.storePassword(ctx, user, password)
}

// SessionWindow returns the inactivity window applied to sessions.
func (s *AuthService) SessionWindow() time.Duration {
	return s.sessions.Policy().Window
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) storePassword(ctx context.Context, user *domain.User, plain string) error {
	hash, err := auth.HashPassword(plain, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}
