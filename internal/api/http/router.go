package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recruitment-service/internal/api/http/handlers"
	"github.com/spec-kit/recruitment-service/internal/auth"
	"github.com/spec-kit/recruitment-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Stages         *handlers.StagesHandler
	Candidates     *handlers.CandidatesHandler
	Interviews     *handlers.InterviewsHandler
	Recruiters     *handlers.RecruitersHandler
	Metrics        fiber.Handler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authed := cfg.AuthMiddleware.Handle
	session := authGroup.Group("", authed, auth.RequireAuthenticated())
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/me", cfg.Auth.Me)
	session.Post("/password/change", cfg.Auth.ChangePassword)

	stages := app.Group("/stages", authed)
	stages.Get("/", cfg.Stages.List)
	stages.Post("/", auth.RequirePermission(domain.PermModifyStages), cfg.Stages.Create)
	stages.Put("/:id", auth.RequirePermission(domain.PermModifyStages), cfg.Stages.Update)
	stages.Delete("/:id", auth.RequirePermission(domain.PermModifyStages), cfg.Stages.Delete)

	view := auth.RequirePermission(domain.PermViewCandidates)
	modify := auth.RequirePermission(domain.PermModifyCandidates)
	lifecycle := auth.RequirePermission(domain.PermModifyStatuses)

	candidates := app.Group("/candidates", authed)
	candidates.Get("/", view, cfg.Candidates.List)
	candidates.Post("/", auth.RequirePermission(domain.PermCreateCandidates), cfg.Candidates.Create)
	candidates.Get("/:id", view, cfg.Candidates.Get)
	candidates.Patch("/:id", modify, cfg.Candidates.Update)
	candidates.Delete("/:id", modify, cfg.Candidates.Delete)
	candidates.Post("/:id/advance", lifecycle, cfg.Candidates.Advance)
	candidates.Post("/:id/reject", lifecycle, cfg.Candidates.Reject)
	candidates.Post("/:id/reopen", lifecycle, cfg.Candidates.Reopen)
	candidates.Put("/:id/status", lifecycle, cfg.Candidates.UpdateStatus)
	candidates.Put("/:id/stage", lifecycle, cfg.Candidates.SetStage)
	candidates.Get("/:id/history", view, cfg.Candidates.History)
	candidates.Get("/:id/comments", view, cfg.Candidates.Comments)
	candidates.Post("/:id/comments", modify, cfg.Candidates.AddComment)
	candidates.Post("/:id/cv", modify, cfg.Candidates.UploadCV)

	app.Get("/me/candidate", authed, auth.RequireRole(domain.RoleCandidate), cfg.Candidates.Mine)

	interviews := app.Group("/interviews", authed)
	interviews.Get("/", auth.RequirePermission(domain.PermViewInterviews), cfg.Interviews.List)
	interviews.Post("/", auth.RequirePermission(domain.PermCreateInterviews), cfg.Interviews.Create)
	interviews.Get("/:id", auth.RequirePermission(domain.PermViewInterviews), cfg.Interviews.Get)
	interviews.Put("/:id/status", auth.RequirePermission(domain.PermModifyInterviews), cfg.Interviews.UpdateStatus)
	interviews.Put("/:id/reschedule", auth.RequirePermission(domain.PermModifyInterviews), cfg.Interviews.Reschedule)
	interviews.Delete("/:id", auth.RequirePermission(domain.PermModifyInterviews), cfg.Interviews.Delete)

	recruiters := app.Group("/recruiters", authed, auth.RequireRole(domain.RoleAdmin))
	recruiters.Get("/", cfg.Recruiters.List)
	recruiters.Post("/", cfg.Recruiters.Create)
	recruiters.Put("/:id/status", cfg.Recruiters.SetStatus)
	recruiters.Get("/:id/permissions", cfg.Recruiters.Permissions)
	recruiters.Put("/:id/permissions", cfg.Recruiters.SetPermissions)
	recruiters.Delete("/:id", cfg.Recruiters.Delete)
}
