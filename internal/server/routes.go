package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/xpanvictor/audioscribe/docs"
	"github.com/xpanvictor/audioscribe/internal/config"
	"github.com/xpanvictor/audioscribe/internal/domains/auth"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/internal/domains/transcription"
	"github.com/xpanvictor/audioscribe/internal/handlers"
	"github.com/xpanvictor/audioscribe/internal/handlers/websocket"
	"github.com/xpanvictor/audioscribe/internal/ratelimit"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

type Dependencies struct {
	Verifier             auth.Verifier
	Issuer               *auth.JWTService
	Ledger               credit.Ledger
	TranscriptionService transcription.Service
	Limiter              ratelimit.Limiter
	Logger               *Logger.Logger
	Configs              *config.Settings
}

func NewServerDependencies(
	verifier auth.Verifier,
	issuer *auth.JWTService,
	ledger credit.Ledger,
	transcriptionService transcription.Service,
	limiter ratelimit.Limiter,
	logger *Logger.Logger,
	config *config.Settings,
) Dependencies {
	return Dependencies{
		Verifier:             verifier,
		Issuer:               issuer,
		Ledger:               ledger,
		TranscriptionService: transcriptionService,
		Limiter:              limiter,
		Logger:               logger,
		Configs:              config,
	}
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.Use(
		handlers.RequestIDMiddleware(),
		handlers.RequestLoggerMiddleware(dep.Logger),
		handlers.ErrorHandlerMiddleware(dep.Logger),
		handlers.CORSMiddleware(cfg.Server.AllowedOrigins),
	)

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "OK") })

	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	transcriptionHandler := handlers.NewTranscriptionHandler(dep.TranscriptionService, dep.Logger)
	creditHandler := handlers.NewCreditHandler(dep.Ledger, cfg.Credits.TopUpMinutes, dep.Logger)
	authHandler := handlers.NewAuthHandler(dep.Issuer, dep.Ledger, dep.Logger)
	wsHandler := websocket.NewWebSocketHandler(
		dep.Logger,
		dep.TranscriptionService,
		dep.Verifier,
		dep.Ledger,
		cfg.Server.AllowedOrigins,
		cfg.Server.BodyLimitMB,
	)

	api := r.Group("/api")
	api.Use(handlers.BodyLimitMiddleware(cfg.Server.BodyLimitMB))
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/transcripts/export", transcriptionHandler.Export)

		protected := api.Group("")
		protected.Use(handlers.AuthMiddleware(dep.Verifier, dep.Ledger, dep.Logger))
		{
			protected.POST("/transcribe", handlers.RateLimitMiddleware(dep.Limiter, dep.Logger), transcriptionHandler.Transcribe)
			protected.GET("/transcribe/stage", transcriptionHandler.Stage)

			protected.GET("/credits", creditHandler.GetBalance)
			protected.POST("/credits/topup", creditHandler.TopUp)
			protected.GET("/credits/history", creditHandler.History)
		}
	}

	wsHandler.RegisterRoutes(r, handlers.RateLimitMiddleware(dep.Limiter, dep.Logger))
}
