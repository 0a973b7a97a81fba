package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/xpanvictor/audioscribe/internal/app"
	"github.com/xpanvictor/audioscribe/internal/config"
	"github.com/xpanvictor/audioscribe/internal/database"
	"github.com/xpanvictor/audioscribe/internal/server"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
	"gorm.io/gorm"
)

// This is the main entry point for the API server.
// Loads in all system components
// Exposes functionalities
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.New(cfg.Debug)
	defer logger.Sync()
	logger.Infof("Logger initialized (env %s)", cfg.Env)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// fetch database connection
	var db *gorm.DB
	if cfg.DB.Driver == "mysql" {
		db, err = database.InitDB(*cfg)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
	}
	var rc *redis.Client
	if cfg.RateLimit.Store == "redis" {
		rc, err = database.NewRedis(cfg.Redis)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
	}

	ctx := context.Background()
	application, err := app.NewApp(ctx, cfg, logger, db, rc, nil)
	if err != nil {
		logger.Fatalf("Failed to build application: %v", err)
	}
	defer application.Close()

	// compose router
	router := gin.New()
	server.InitializeRoutes(cfg, router, application.GetServerDependencies())

	// listen with graceful exit
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router.Handler(),
	}
	go func() {
		logger.Infof("Backend live on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server exiting %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 5 secs then cancel
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown err %v", err)
	}
	logger.Info("Shutdown system")
}
