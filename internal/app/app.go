package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/audioscribe/internal/config"
	"github.com/xpanvictor/audioscribe/internal/database"
	"github.com/xpanvictor/audioscribe/internal/domains/auth"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/internal/domains/transcription"
	"github.com/xpanvictor/audioscribe/internal/models/diarizer"
	"github.com/xpanvictor/audioscribe/internal/ratelimit"
	creditRepo "github.com/xpanvictor/audioscribe/internal/repository/credit"
	"github.com/xpanvictor/audioscribe/internal/server"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB
	RC     *redis.Client
	Engine diarizer.Engine
	// repos
	AccountRepo credit.AccountRepository
	ServerDeps  server.Dependencies

	closers []func() error
}

// NewApp creates a new application instance with all dependencies properly
// wired. A nil db selects the in-memory account store, a nil rc the
// in-process rate limiter. A nil engine is built from the settings.
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client, engine diarizer.Engine) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
		Engine: engine,
	}

	if err := app.setupDependencies(ctx); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies(ctx context.Context) error {
	// 1. repositories
	if a.DB != nil {
		if err := database.MigrateDB(a.DB); err != nil {
			return err
		}
		a.AccountRepo = creditRepo.NewGormAccountRepo(a.DB)
	} else {
		a.Logger.Warn("no database configured, credit balances are kept in memory")
		a.AccountRepo = creditRepo.NewMemoryAccountRepo()
	}

	// 2. engine
	if a.Engine == nil {
		engine, closeEngine, err := NewEngineFactory(a.Config.Engine, a.Logger).CreateEngine(ctx)
		if err != nil {
			return fmt.Errorf("failed to create diarization engine: %w", err)
		}
		a.Engine = engine
		a.closers = append(a.closers, closeEngine)
	}

	// 3. auth
	jwtSecret := a.Config.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		a.Logger.Warn("JWT secret not configured, using default (not secure for production)")
	}
	issuer := auth.NewJWTService(jwtSecret, a.Config.Auth.TokenTTL())
	verifiers := auth.ChainVerifier{issuer}
	if a.Config.Auth.StaticToken != "" {
		verifiers = append(verifiers, auth.StaticVerifier{
			a.Config.Auth.StaticToken: {UserID: a.Config.Auth.StaticUserID, Email: "guest@example.com"},
		})
		a.Logger.Warnf("static token accepted for %s", a.Config.Auth.StaticUserID)
	}

	// 4. services
	ledger := credit.NewLedger(a.AccountRepo, a.Logger.Named("ledger"), a.Config.Credits.SignupMinutes)
	transcriptionService := transcription.NewService(
		ledger,
		a.Engine,
		a.Logger.Named("transcription"),
		transcription.Config{EngineTimeout: a.Config.Engine.Timeout()},
	)

	limitCfg := ratelimit.Config{Window: a.Config.RateLimit.Window, Max: a.Config.RateLimit.Max}
	var limiter ratelimit.Limiter
	if a.RC != nil && a.Config.RateLimit.Store == "redis" {
		limiter = ratelimit.NewRedisLimiter(a.RC, limitCfg)
	} else {
		limiter = ratelimit.NewMemoryLimiter(limitCfg)
	}

	a.ServerDeps = server.NewServerDependencies(
		verifiers,
		issuer,
		ledger,
		transcriptionService,
		limiter,
		a.Logger,
		a.Config,
	)

	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}

// Close releases clients opened by the app
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	if a.RC != nil {
		if err := a.RC.Close(); err != nil && first == nil {
			first = err
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
