package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack/internal/config"
	"github.com/justsurfingit/jobtrack/internal/database"
	"github.com/justsurfingit/jobtrack/internal/email"
	"github.com/justsurfingit/jobtrack/internal/handlers"
	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/services"
	"github.com/justsurfingit/jobtrack/internal/storage"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.Environment)
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Invalid config: %v", err)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database Connection
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("Database: %v", err)
	}

	// 3. Email provider
	sender := email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	verifier, err := email.NewSvixVerifier(cfg.WebhookSecret)
	if err != nil {
		logger.Log.Fatalf("Webhook verifier: %v", err)
	}

	// 4. Services
	notifications := services.NewNotificationService(db)
	dispatcher := services.NewNotificationDispatcher(sender, services.DispatchOptions{
		SiteURL:       cfg.SiteURL,
		Location:      cfg.Timezone,
		Concurrency:   cfg.SendConcurrency,
		RatePerSecond: cfg.SendRatePerSecond,
	})
	reminders := services.NewReminderService(notifications, dispatcher)
	deliveries := services.NewDeliveryService(verifier, notifications)
	users := services.NewUserService(db)
	applications := services.NewApplicationService(db)
	events := services.NewEventService(db)

	var store storage.Storage
	if cfg.DocumentsBucket != "" {
		s3Store, err := storage.NewS3Storage(ctx, storage.Config{
			Bucket:    cfg.DocumentsBucket,
			Region:    cfg.DocumentsRegion,
			Endpoint:  cfg.DocumentsEndpoint,
			PublicURL: cfg.DocumentsPublicURL,
		})
		if err != nil {
			logger.Log.Fatalf("Document storage: %v", err)
		}
		store = s3Store
	} else {
		logger.Log.Warn("DOCUMENTS_BUCKET is not set; document uploads are disabled")
	}
	documents := services.NewDocumentService(db, store)
	applications.Objects = documents

	// 5. Router
	r, err := handlers.NewRouter(handlers.Routes{
		AllowOrigins: []string{cfg.SiteURL},
		Cron:         handlers.NewCronHandler(reminders, cfg.CronSecret),
		Webhooks:     handlers.NewWebhookHandler(deliveries),
		Applications: handlers.NewApplicationHandler(applications, events),
		Events:       handlers.NewEventHandler(events),
		Documents:    handlers.NewDocumentHandler(documents),
		Users:        handlers.NewUserHandler(users),
		Health:       applications,
	})
	if err != nil {
		logger.Log.Fatalf("Router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server starting on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("Shutting down server...")
		// In-flight reminder runs get time to settle their sends.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("Server shutdown failed")
		}
	case err := <-serverErr:
		logger.Log.Fatalf("Server failed to start: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Info("Server stopped")
}
