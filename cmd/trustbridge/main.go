package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trustbridge/internal/api"
	"trustbridge/internal/api/handlers"
	"trustbridge/internal/async"
	"trustbridge/internal/repository"
	"trustbridge/internal/service"
	"trustbridge/internal/storage"
	"trustbridge/internal/watsonx"
	"trustbridge/pkg/auth"
	"trustbridge/pkg/config"
	"trustbridge/pkg/logger"
	"trustbridge/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting TrustBridge service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	docRepo := repository.NewDocumentRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	claimRepo := repository.NewClaimRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize object storage
	store, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.Bucket, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Initialize watsonx client (text extraction + Granite LLM)
	tokens := watsonx.NewTokenSource(cfg.Watsonx.APIKey, &http.Client{Timeout: 30 * time.Second}, appLogger)
	wxClient := watsonx.NewClient(&cfg.Watsonx, &cfg.Pipeline, cfg.Storage.Bucket, tokens, appLogger)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	docService := service.NewDocumentService(docRepo, txRepo, store, wxClient, wxClient, appLogger)
	repService := service.NewReputationService(claimRepo, txRepo, appLogger)

	// Worker queue for fire-and-forget document processing
	queue := async.NewQueue(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	docHandler := handlers.NewDocumentHandler(docService, queue, appLogger)
	repHandler := handlers.NewReputationHandler(repService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, docHandler, repHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}

	// Let in-flight pipeline runs reach a terminal state
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
}
