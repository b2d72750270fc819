package main

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/spec-kit/recruitment-service/internal/config"
	"github.com/spec-kit/recruitment-service/internal/observability"
	"github.com/spec-kit/recruitment-service/internal/persistence"
	"github.com/spec-kit/recruitment-service/internal/repository"
	"github.com/spec-kit/recruitment-service/internal/service"
)

var errNoDatabase = errors.New("POSTGRES_DSN is not set")

type commandContext struct {
	plainFlag *bool

	configOnce sync.Once
	config     *config.Config
	logger     *zap.Logger
	configErr  error

	db *persistence.Postgres
}

func newCommandContext(plainFlag *bool) *commandContext {
	return &commandContext{plainFlag: plainFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		logger, err := observability.NewLogger(cfg.Logger, cfg.App)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) database(ctx context.Context) (*persistence.Postgres, error) {
	if c.db != nil {
		return c.db, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	db, err := persistence.NewPostgres(ctx, cfg.Postgres, c.logger)
	if err != nil {
		return nil, err
	}
	if db.PoolHandle() == nil {
		return nil, errNoDatabase
	}
	c.db = db
	return db, nil
}

func (c *commandContext) authService(ctx context.Context) (*service.AuthService, error) {
	db, err := c.database(ctx)
	if err != nil {
		return nil, err
	}
	pool := db.PoolHandle()
	return service.NewAuthService(*c.config, service.AuthDependencies{
		UserRepo:          repository.NewUserRepository(pool),
		PasswordResetRepo: repository.NewPasswordResetRepository(pool),
		Logger:            c.logger,
	}), nil
}

func (c *commandContext) stageService(ctx context.Context) (*service.StageService, error) {
	db, err := c.database(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewStageService(repository.NewStageRepository(db.PoolHandle()), c.logger), nil
}

// styled reports whether tables should be drawn with borders.
func (c *commandContext) styled() bool {
	if c.plainFlag != nil && *c.plainFlag {
		return false
	}
	return stdoutIsTerminal()
}

func (c *commandContext) close() {
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
