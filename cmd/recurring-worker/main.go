package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jackson973/projeto-indicadores-sub001/internal/amqp"
	"github.com/jackson973/projeto-indicadores-sub001/internal/config"
	"github.com/jackson973/projeto-indicadores-sub001/internal/services"
	"github.com/jackson973/projeto-indicadores-sub001/internal/storage"
	"github.com/jackson973/projeto-indicadores-sub001/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Error("Failed to load time zone", "error", err, "zone", cfg.TimeZone)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without notifications", "error", err)
			amqpClient = nil
		}
	}

	svc := services.NewLedgerService(repo, amqpClient, loc)
	defer svc.Close()

	materializer := worker.NewMaterializer(svc, cfg.MaterializeAhead)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Recurrence materializer configured",
		"interval", cfg.MaterializeInterval,
		"months_ahead", cfg.MaterializeAhead,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.MaterializeInterval)
	defer ticker.Stop()

	// Run once on startup so a restart never misses a month boundary.
	if count, err := materializer.Run(ctx); err != nil {
		logger.Error("Initial materialization failed", "error", err)
	} else {
		logger.Info("Initial materialization complete", "entries_created", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count, err := materializer.Run(ctx)
				if err != nil {
					logger.Error("Periodic materialization failed", "error", err)
					continue
				}
				logger.Info("Periodic materialization complete",
					"entries_created", count,
					"next_check", now.Add(cfg.MaterializeInterval).Format("15:04:05"))
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Recurring-worker shutdown complete")
}
