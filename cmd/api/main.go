package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/recruitment-service/internal/api/http"
	"github.com/spec-kit/recruitment-service/internal/api/http/handlers"
	"github.com/spec-kit/recruitment-service/internal/auth"
	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/events"
	"github.com/spec-kit/recruitment-service/internal/observability"
	"github.com/spec-kit/recruitment-service/internal/persistence"
	"github.com/spec-kit/recruitment-service/internal/ratelimit"
	"github.com/spec-kit/recruitment-service/internal/repository"
	"github.com/spec-kit/recruitment-service/internal/service"
	"github.com/spec-kit/recruitment-service/internal/session"
	"github.com/spec-kit/recruitment-service/internal/storage"
	"github.com/spec-kit/recruitment-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	policy := session.NewPolicy(cfg.Session.Timeout(), cfg.Session.CheckInterval())
	var (
		sessionStore session.Store
		memoryStore  *session.MemoryStore
		limiter      ratelimit.Limiter
		redisProbe   handlers.Pinger
	)
	if redis.Available(ctx) {
		sessionStore = session.NewRedisStore(redis.Client)
		limiter = ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow(), "ratelimit", logger)
		redisProbe = redis
	} else {
		logger.Warn("redis unavailable; using in-memory sessions and rate limiting")
		memoryStore = session.NewMemoryStore()
		sessionStore = memoryStore
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow())
	}
	sessions := session.NewTracker(sessionStore, policy)

	cvStore, err := storage.NewDiskStore(cfg.Upload.Dir, cfg.Upload.PublicPrefix, cfg.Upload.MaxSizeBytes())
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	stageRepo := repository.NewStageRepository(pool)
	candidateRepo := repository.NewCandidateRepository(pool)
	historyRepo := repository.NewCandidateHistoryRepository(pool)
	commentRepo := repository.NewCandidateCommentRepository(pool)
	interviewRepo := repository.NewInterviewRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification), logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Sessions:          sessions,
		Limiter:           limiter,
		Logger:            logger,
	})
	stageService := service.NewStageService(stageRepo, logger)
	candidateService := service.NewCandidateService(*cfg, service.CandidateDependencies{
		CandidateRepo: candidateRepo,
		HistoryRepo:   historyRepo,
		CommentRepo:   commentRepo,
		StageRepo:     stageRepo,
		UserRepo:      userRepo,
		CVStore:       cvStore,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	interviewService := service.NewInterviewService(service.InterviewDependencies{
		InterviewRepo: interviewRepo,
		CandidateRepo: candidateRepo,
		UserRepo:      userRepo,
		StageRepo:     stageRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	recruiterService := service.NewRecruiterService(*cfg, service.RecruiterDependencies{
		UserRepo:       userRepo,
		PermissionRepo: permissionRepo,
		Logger:         logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, permissionRepo, sessions)

	if memoryStore != nil {
		go worker.RunSessionSweeper(ctx, memoryStore, policy, logger)
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Upload.MaxSizeBytes()) + 1024*1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})
	app.Static(cfg.Upload.PublicPrefix, cfg.Upload.Dir)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisProbe),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth.ExposeResetToken),
		Stages:         handlers.NewStagesHandler(stageService),
		Candidates:     handlers.NewCandidatesHandler(candidateService),
		Interviews:     handlers.NewInterviewsHandler(interviewService),
		Recruiters:     handlers.NewRecruitersHandler(recruiterService),
		Metrics:        metrics.Handler(),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
