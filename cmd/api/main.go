package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hr-portal-backend/config"
	_ "hr-portal-backend/docs" // Important for Swagger
	v1 "hr-portal-backend/internal/delivery/http/v1"
	"hr-portal-backend/internal/repository/postgres"
	"hr-portal-backend/internal/usecase"
	"hr-portal-backend/pkg/database"
	"hr-portal-backend/pkg/events"
	"hr-portal-backend/pkg/logger"
	"hr-portal-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
)

// @title           HR Portal Document API
// @version         1.0
// @description     Document authorization and lifecycle service for the HR portal.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting hr portal backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Storage Gateway
	gateway, err := storage.NewS3Gateway(context.Background(), storage.S3Config{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
		PublicBaseURL:   cfg.S3PublicBaseURL,
		CallTimeout:     time.Duration(cfg.StorageTimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Log.Error("Failed to set up storage gateway", "error", err)
		os.Exit(1)
	}

	// 5. Setup Event Publisher (optional)
	var publisher *events.Publisher
	if cfg.AMQPUrl != "" {
		publisher, err = events.NewPublisher(cfg.AMQPUrl, cfg.AMQPExchange)
		if err != nil {
			logger.Log.Warn("Event publisher unavailable, lifecycle events disabled", "error", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	documentRepo := postgres.NewDocumentRepository(dbPool)

	// 7. Setup UseCases
	validate := validator.New()
	documentUC := usecase.NewDocumentUsecase(userRepo, documentRepo, gateway, publisher, validate)
	userUC := usecase.NewUserUsecase(userRepo)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		DocumentUC: documentUC,
		UserUC:     userUC,
		UserRepo:   userRepo,
		Config:     cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
