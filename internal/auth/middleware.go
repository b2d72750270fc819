package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/repository"
	"github.com/spec-kit/recruitment-service/internal/session"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User        *domain.User
	SessionID   string
	Permissions *domain.RecruiterPermissions
}

// Role returns the caller's role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Role
}

// Can reports whether the caller holds perm. Admins hold every permission,
// candidates none.
func (p *Principal) Can(perm domain.Permission) bool {
	switch p.Role() {
	case domain.RoleAdmin:
		return true
	case domain.RoleRecruiter:
		return p.Permissions.Allows(perm)
	}
	return false
}

// ActorID returns the user id recorded on audit rows.
func (p *Principal) ActorID() *string {
	if p == nil || p.User == nil {
		return nil
	}
	id := p.User.ID
	return &id
}

// AuthMiddleware validates bearer tokens, enforces the inactivity window and
// loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	permissions repository.PermissionRepository
	sessions    *session.Tracker
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, permissions repository.PermissionRepository, sessions *session.Tracker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, permissions: permissions, sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	ctx := c.UserContext()
	if _, err := m.sessions.Check(ctx, claims.SessionID()); err != nil {
		switch {
		case errors.Is(err, session.ErrSessionExpired):
			return apperrors.NewSessionExpired()
		case errors.Is(err, session.ErrSessionNotFound):
			return apperrors.NewUnauthorized("session ended")
		default:
			return apperrors.MapError(err)
		}
	}

	user, err := m.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusActive {
		return apperrors.NewUnauthorized("account disabled")
	}

	principal := &Principal{User: user, SessionID: claims.SessionID()}
	if user.Role == domain.RoleRecruiter {
		perms, err := m.permissions.Get(ctx, user.ID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			defaults := domain.DefaultRecruiterPermissions(user.ID)
			perms = &defaults
		case err != nil:
			return apperrors.MapError(err)
		}
		principal.Permissions = perms
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// WithPrincipal stores p on the request; used by tests and internal callers.
func WithPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(principalKey, p)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
