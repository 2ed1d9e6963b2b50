package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swasth-health/portal-backend/internal/audit"
	"github.com/swasth-health/portal-backend/internal/blob"
	"github.com/swasth-health/portal-backend/internal/config"
	"github.com/swasth-health/portal-backend/internal/handler"
	"github.com/swasth-health/portal-backend/internal/middleware"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/internal/security"
	"github.com/swasth-health/portal-backend/internal/service"
	"github.com/swasth-health/portal-backend/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	// Pick the backing store: Postgres when a database URL is configured,
	// the in-memory store otherwise.
	var kv store.Store
	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("Failed to ping database", zap.Error(err))
		}

		kv, err = store.NewPostgresStore(ctx, pool, logger)
		if err != nil {
			logger.Fatal("Failed to initialize postgres store", zap.Error(err))
		}
		logger.Info("Using postgres store")
	} else {
		kv = store.NewMemoryStore()
		logger.Info("Using in-memory store")
	}

	// Same choice for document storage: Azure when credentials are present.
	var documents blob.Storage
	if cfg.Storage.AccountName != "" {
		documents, err = blob.NewAzureStorage(
			cfg.Storage.AccountName,
			cfg.Storage.AccountKey,
			cfg.Storage.DocumentContainer,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize blob storage", zap.Error(err))
		}
		logger.Info("Using Azure blob storage")
	} else {
		documents = blob.NewMemoryStorage(logger)
		logger.Info("Using in-memory blob storage")
	}

	encryptor, err := security.NewEncryptor([]byte(cfg.Auth.EncryptionKey))
	if err != nil {
		logger.Fatal("Failed to initialize encryptor", zap.Error(err))
	}

	auditLogger := audit.NewLogger(kv, logger)

	sessionRepo := repository.NewSessionRepository(kv, logger)
	profileRepo := repository.NewProfileRepository(kv, encryptor, logger)

	authService, err := service.NewAuthService(
		sessionRepo,
		profileRepo,
		auditLogger,
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize auth service", zap.Error(err))
	}
	questionnaireService := service.NewQuestionnaireService(profileRepo, sessionRepo, auditLogger, logger)
	profileService := service.NewProfileService(profileRepo, sessionRepo, auditLogger, logger)
	documentService := service.NewDocumentService(profileRepo, documents, auditLogger, logger)
	dashboardService := service.NewDashboardService(sessionRepo, logger)

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authService, logger),
		Questionnaire: handler.NewQuestionnaireHandler(questionnaireService, sessionRepo, logger),
		Profile:       handler.NewProfileHandler(profileService, logger),
		Document:      handler.NewDocumentHandler(documentService, sessionRepo, logger),
		Dashboard:     handler.NewDashboardHandler(dashboardService, logger),
		Health:        handler.NewHealthHandler(kv, logger),
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	handler.RegisterRoutes(r, handlers, cfg.Auth.JWTSecret, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
