package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/hugh/fleet-hub/internal/database"
	"github.com/hugh/fleet-hub/internal/maintenance"
	"github.com/hugh/fleet-hub/internal/notify"
	"github.com/hugh/fleet-hub/internal/tasks"
	"github.com/hugh/fleet-hub/pkg/config"
	"github.com/hugh/fleet-hub/pkg/crypto"
	"github.com/hugh/fleet-hub/pkg/queue"
	"github.com/hugh/fleet-hub/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting Fleet-Hub worker")

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// The reminder sweep enqueues follow-up broadcast tasks
	asynqClient := queue.NewClient(&cfg.Redis)

	// Initialize encryptor for push subscription key storage
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}

	maintenanceService := maintenance.NewService(logger)
	notifier := notify.NewLogNotifier(logger)

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, 10)

	// Create task handler
	handler := tasks.NewHandler(db, logger, maintenanceService, notifier, encryptor, asynqClient)

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Schedule the periodic maintenance-due sweep
	if err := util.ValidateCronExpr(cfg.Reminder.Cron); err != nil {
		logger.Error("invalid REMINDER_CRON", "cron", cfg.Reminder.Cron, "error", err)
		os.Exit(1)
	}
	scheduler := queue.NewScheduler(&cfg.Redis)
	if _, err := scheduler.Register(cfg.Reminder.Cron, tasks.NewReminderTickTask()); err != nil {
		logger.Error("failed to register reminder schedule", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...", "reminder_cron", cfg.Reminder.Cron)

	// Start the server
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	// Wait for context cancellation
	<-ctx.Done()

	// Close connections
	asynqClient.Close()
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
