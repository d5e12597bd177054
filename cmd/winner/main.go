package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"winner/internal/amqp"
	"winner/internal/app"
	"winner/internal/backend"
	"winner/internal/config"
	apphttp "winner/internal/http"
	"winner/internal/ledger"
	"winner/internal/log"
	"winner/internal/mortgage"
	"winner/internal/settings"
	"winner/internal/stocks"
	"winner/internal/store/mirror"
	"winner/internal/tracker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), Component: log.ComponentApp})
	log.SetDefault(logger)

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

	ledgerOpts := []ledger.Option{
		ledger.WithMirror(mirror.New(cfg.MirrorPath)),
	}

	// Change events are optional; the server works standalone without a broker.
	if cfg.AMQPEnabled() {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			ledgerOpts = append(ledgerOpts, ledger.WithNotifier(amqpClient))
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	set := settings.NewService(repo)
	ldg := ledger.New(repo, logger, ledgerOpts...)
	trk := tracker.New(repo, set, logger)
	application := app.New(repo, ldg, trk, set, logger, app.WithReadyTimeout(cfg.ReadyTimeout))

	initCtx, initCancel := context.WithTimeout(context.Background(), cfg.ReadyTimeout+10*time.Second)
	if err := application.Init(initCtx); err != nil {
		initCancel()
		logger.Error("Application startup failed", log.FieldError, err)
		os.Exit(1)
	}
	initCancel()
	if ldg.Offline() {
		logger.Warn("Store unreachable, serving read-only data from mirror", log.FieldMirrorPath, cfg.MirrorPath)
	}

	stk := stocks.NewService(repo, stocks.NewYahooClient(), logger)
	mtg := mortgage.NewService(repo, logger)

	srv := apphttp.NewServer(":"+cfg.Port, application, ldg, trk, set, stk, mtg, logger)
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting winner server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
