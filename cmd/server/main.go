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
	"github.com/joho/godotenv"
	"github.com/mroshb/chat_app/internal/config"
	"github.com/mroshb/chat_app/internal/database"
	"github.com/mroshb/chat_app/internal/handlers"
	"github.com/mroshb/chat_app/internal/middleware"
	"github.com/mroshb/chat_app/internal/notify"
	"github.com/mroshb/chat_app/internal/services"
	"github.com/mroshb/chat_app/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	logger.Info("Starting chat server...")

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	notifier := notify.Multi{notify.LogNotifier{}}
	var telegram *notify.TelegramNotifier
	if cfg.TelegramBotToken != "" {
		telegram, err = notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.NotificationWorkers, cfg.AppEnv == "development")
		if err != nil {
			logger.Warn("Telegram notifications disabled", "error", err)
		} else {
			notifier = append(notifier, telegram)
		}
	}

	store := services.NewStore(db)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, cfg.GetRateLimitWindow())

	h := handlers.NewHandlerManager(
		cfg,
		services.NewUserService(store),
		services.NewRequestService(store, notifier),
		services.NewFriendService(store),
		services.NewConversationService(store),
		services.NewGroupService(store),
		services.NewMessageService(store, notifier, cfg.MaxMessageLength),
		rateLimiter,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", err)
		}
	}()

	logger.Info("Server started successfully", "env", cfg.AppEnv, "port", cfg.AppPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	rateLimiter.Stop()
	if telegram != nil {
		telegram.Stop()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("Server stopped")
}
