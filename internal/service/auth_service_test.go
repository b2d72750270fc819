package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/recruitment-service/internal/auth"
	"github.com/spec-kit/recruitment-service/internal/domain"
	"github.com/spec-kit/recruitment-service/internal/ratelimit"
	"github.com/spec-kit/recruitment-service/internal/session"
	apperrors "github.com/spec-kit/recruitment-service/pkg/util/errorutil"
)

type authFixture struct {
	db       *memDB
	sessions *session.Tracker
	svc      *AuthService
}

func newAuthFixture(t *testing.T, limiter ratelimit.Limiter) *authFixture {
	t.Helper()
	db := newMemDB()
	sessions := session.NewTracker(session.NewMemoryStore(), session.NewPolicy(30*time.Minute, time.Minute))
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:          fakeUsers{db},
		PasswordResetRepo: fakeResets{db},
		Sessions:          sessions,
		Limiter:           limiter,
	})
	return &authFixture{db: db, sessions: sessions, svc: svc}
}

func (f *authFixture) addUser(t *testing.T, email, password string, role domain.Role, status domain.UserStatus) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, testConfig().Auth.BcryptCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &domain.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: hash, Role: role, Status: status}
	if err := (fakeUsers{f.db}).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestLoginOpensSession(t *testing.T) {
	f := newAuthFixture(t, nil)
	user := f.addUser(t, "rec@example.com", "password1", domain.RoleRecruiter, domain.UserStatusActive)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, " REC@example.com ", "password1", "10.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != user.ID || result.Meta.Role != domain.RoleRecruiter {
		t.Fatalf("unexpected login result %+v", result.Meta)
	}

	claims, err := f.svc.TokenManager().ParseToken(result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.SubjectID != user.ID || claims.SessionID() != result.Session.ID {
		t.Fatalf("claims do not match session: %+v", claims)
	}
	if _, err := f.sessions.Check(ctx, claims.SessionID()); err != nil {
		t.Fatalf("session should be live: %v", err)
	}

	if err := f.svc.Logout(ctx, result.Session.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.sessions.Check(ctx, result.Session.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ended session, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.addUser(t, "cand@example.com", "password1", domain.RoleCandidate, domain.UserStatusActive)
	f.addUser(t, "off@example.com", "password1", domain.RoleRecruiter, domain.UserStatusDisabled)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
		code     string
	}{
		{"missing fields", "", "", apperrors.CodeValidation},
		{"unknown email", "ghost@example.com", "password1", apperrors.CodeUnauthorized},
		{"wrong password", "cand@example.com", "password2", apperrors.CodeUnauthorized},
		{"disabled account", "off@example.com", "password1", apperrors.CodeForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tc.email, tc.password, "10.0.0.1")
			if !apperrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestLoginRateLimited(t *testing.T) {
	f := newAuthFixture(t, ratelimit.NewMemoryLimiter(2, time.Minute))
	f.addUser(t, "cand@example.com", "password1", domain.RoleCandidate, domain.UserStatusActive)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Login(ctx, "cand@example.com", "nope-nope", "10.0.0.1"); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			t.Fatalf("attempt %d: expected UNAUTHORIZED, got %v", i, err)
		}
	}
	if _, err := f.svc.Login(ctx, "cand@example.com", "password1", "10.0.0.1"); !apperrors.IsCode(err, apperrors.CodeRateLimited) {
		t.Fatalf("expected RATE_LIMITED, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "cand@example.com", "password1", "10.0.0.2"); err != nil {
		t.Fatalf("other client should not be limited: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t, nil)
	user := f.addUser(t, "cand@example.com", "password1", domain.RoleCandidate, domain.UserStatusActive)
	ctx := context.Background()

	if err := f.svc.ChangePassword(ctx, user.ID, "password1", "short"); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if err := f.svc.ChangePassword(ctx, user.ID, "wrong-one", "password2"); !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if err := f.svc.ChangePassword(ctx, user.ID, "password1", "password2"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := f.svc.Login(ctx, "cand@example.com", "password2", "ip"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.addUser(t, "cand@example.com", "password1", domain.RoleCandidate, domain.UserStatusActive)
	ctx := context.Background()

	token, err := f.svc.RequestPasswordReset(ctx, "ghost@example.com")
	if err != nil || token != nil {
		t.Fatalf("unknown email should be silent: token=%v err=%v", token, err)
	}

	token, err = f.svc.RequestPasswordReset(ctx, "Cand@Example.com")
	if err != nil || token == nil {
		t.Fatalf("request reset: token=%v err=%v", token, err)
	}
	if err := f.svc.ConfirmPasswordReset(ctx, "bogus", "password9"); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_FAILED for bogus token, got %v", err)
	}
	if err := f.svc.ConfirmPasswordReset(ctx, token.Token, "password9"); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}
	if err := f.svc.ConfirmPasswordReset(ctx, token.Token, "password8"); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("token must be single use, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "cand@example.com", "password9", "ip"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
}

func TestPasswordResetExpires(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.addUser(t, "cand@example.com", "password1", domain.RoleCandidate, domain.UserStatusActive)
	ctx := context.Background()

	token, err := f.svc.RequestPasswordReset(ctx, "cand@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	f.svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := f.svc.ConfirmPasswordReset(ctx, token.Token, "password9"); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected expired token to be refused, got %v", err)
	}
}

func TestPasswordResetRetiresEarlierToken(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.addUser(t, "cand@example.com", "password1", domain.RoleCandidate, domain.UserStatusActive)
	ctx := context.Background()

	first, err := f.svc.RequestPasswordReset(ctx, "cand@example.com")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := f.svc.RequestPasswordReset(ctx, "cand@example.com")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if err := f.svc.ConfirmPasswordReset(ctx, first.Token, "password9"); !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected earlier token to be retired, got %v", err)
	}
	if err := f.svc.ConfirmPasswordReset(ctx, second.Token, "password9"); err != nil {
		t.Fatalf("confirm with latest token: %v", err)
	}
}

func TestCreateAdminAndSetPassword(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	admin, err := f.svc.CreateAdmin(ctx, "Ada", "Admin", "Admin@Example.com", "password1")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if admin.Role != domain.RoleAdmin || admin.Email != "admin@example.com" {
		t.Fatalf("unexpected admin %+v", admin)
	}
	if _, err := f.svc.CreateAdmin(ctx, "Ada", "Admin", "admin@example.com", "password1"); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
	if err := f.svc.SetPassword(ctx, "admin@example.com", "password2"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := f.svc.SetPassword(ctx, "nobody@example.com", "password2"); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "admin@example.com", "password2", "ip"); err != nil {
		t.Fatalf("login: %v", err)
	}
}
