package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yoursocial/yoursocial/internal/db"
	"github.com/yoursocial/yoursocial/internal/jobs"
	"github.com/yoursocial/yoursocial/internal/mail"
	"github.com/yoursocial/yoursocial/internal/media"
	"github.com/yoursocial/yoursocial/pkg/config"
	"github.com/yoursocial/yoursocial/pkg/logging"
	"github.com/yoursocial/yoursocial/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting YourSocial Worker")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Media storage
	store, err := media.NewStore(&cfg.Media)
	if err != nil {
		logger.Fatal("Failed to initialize media store", zap.Error(err))
	}

	repo := db.NewRepository(database.DB)
	mailer := mail.New(&cfg.Mail)

	runner := jobs.NewRunner()
	runner.Register(jobs.NewStorySweep(repo), cfg.Worker.StorySweepInterval)
	runner.Register(jobs.NewStatisticsReconcile(repo), cfg.Worker.StatisticsInterval)
	runner.Register(jobs.NewNotificationDigest(repo, mailer), cfg.Worker.DigestInterval)
	runner.Register(jobs.NewMediaProcessing(store), cfg.Worker.MediaScanInterval)

	// Run until interrupted
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down worker...")
		cancel()
	}()

	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("Worker stopped with error", zap.Error(err))
	}

	logger.Info("Worker exited")
}
