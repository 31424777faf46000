package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cardtrack/internal/amqp"
	"cardtrack/internal/config"
	"cardtrack/internal/log"
	"cardtrack/internal/sheets"
	"cardtrack/internal/sheets/google"
	"cardtrack/internal/sheets/memory"
	"cardtrack/internal/store"
	"cardtrack/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	log.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("worker exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("worker stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	records, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer records.Close()

	st, err := store.Load(ctx, records)
	if err != nil {
		return err
	}

	var ledger sheets.Ledger
	if cfg.GoogleSpreadsheetID != "" {
		ledger, err = google.New(ctx, google.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			OAuthClientFile: cfg.GoogleOAuthClientFile,
			OAuthTokenFile:  cfg.GoogleOAuthTokenFile,
		})
		if err != nil {
			return err
		}
		slog.Info("ledger backed by spreadsheet", "sheet", cfg.GoogleSheetName)
	} else {
		ledger = memory.New()
		slog.Warn("no GOOGLE_SPREADSHEET_ID provided, ledger rows stay in memory")
	}

	exportWorker := worker.NewExportWorker(st, ledger, cfg.SyncInterval)

	g, ctx := errgroup.WithContext(ctx)

	// Reconciliation sweep: once at startup and then every interval.
	exportWorker.Start(ctx)
	g.Go(func() error {
		<-ctx.Done()
		exportWorker.Stop()
		return nil
	})

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer amqpClient.Close()

		g.Go(func() error {
			err := amqpClient.ConsumeTransactionEvents(ctx, exportWorker.HandleEvent)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		slog.Info("event consumption disabled, no AMQP_URL provided")
	}

	return g.Wait()
}
