package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jackson973/projeto-indicadores-sub001/internal/amqp"
	"github.com/jackson973/projeto-indicadores-sub001/internal/config"
	apphttp "github.com/jackson973/projeto-indicadores-sub001/internal/http"
	"github.com/jackson973/projeto-indicadores-sub001/internal/services"
	ports "github.com/jackson973/projeto-indicadores-sub001/internal/sheets"
	gsheet "github.com/jackson973/projeto-indicadores-sub001/internal/sheets/google"
	"github.com/jackson973/projeto-indicadores-sub001/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

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
			logger.Warn("Failed to initialize AMQP client, change notifications disabled", "error", err)
			amqpClient = nil
		} else {
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - ledger changes will not be published")
	}

	svc := services.NewLedgerService(repo, amqpClient, loc)
	defer svc.Close()

	var reader ports.SpreadsheetReader
	if cfg.GoogleSpreadsheetID != "" {
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Warn("Failed to initialize Google Sheets client, import endpoints disabled", "error", err)
		} else {
			reader = cli
			logger.Info("Google Sheets import source initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, reader)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

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
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting indicadores server", "port", cfg.Port, "time_zone", cfg.TimeZone)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
