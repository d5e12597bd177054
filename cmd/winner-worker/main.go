package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"winner/internal/amqp"
	"winner/internal/backend"
	"winner/internal/config"
	"winner/internal/ledger"
	"winner/internal/log"
	"winner/internal/sheets"
	gsheet "winner/internal/sheets/google"
	"winner/internal/store/mirror"
	"winner/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting winner-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	result, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("Failed to open data backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() { _ = result.Cleanup() }()
	}
	repo := result.Repo

	// Google Sheets export is optional.
	var appender sheets.ExpenseAppender
	if cfg.SheetsEnabled() {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		appender = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ldg := ledger.New(repo, logger, ledger.WithMirror(mirror.New(cfg.MirrorPath)))
	syncWorker := worker.NewSyncWorker(repo, ldg, appender, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Performing startup check...")
	if err := syncWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup check failed", log.FieldError, err)
		// Keep running; the periodic refresh retries.
	}

	// Consume change events when a broker is configured; otherwise the
	// periodic refresh is the only trigger.
	if cfg.AMQPEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			handler := func(msg *amqp.RecordChangeMessage) error {
				return syncWorker.HandleRecordChange(ctx, msg)
			}
			if err := amqpClient.ConsumeRecordChanges(ctx, handler); err != nil {
				if err != context.Canceled {
					logger.Error("Message consumption failed", log.FieldError, err)
				}
				cancel()
			}
		}()
		logger.Info("Consuming record change events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - relying on periodic refresh only")
	}

	go syncWorker.RunPeriodic(ctx, cfg.SyncInterval)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
