package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cardtrack/internal/amqp"
	"cardtrack/internal/config"
	apphttp "cardtrack/internal/http"
	"cardtrack/internal/ingest"
	"cardtrack/internal/log"
	"cardtrack/internal/notify"
	"cardtrack/internal/services"
	"cardtrack/internal/store"
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
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
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

	caches := apphttp.NewSummaryCache(cfg.CacheSize, cfg.CacheTTL)

	// Transaction events feed the ledger worker; no broker means the
	// reconciliation sweep alone keeps the ledger current.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		eventsClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer eventsClient.Close()
		publisher = eventsClient
		slog.Info("transaction events enabled", "queue", cfg.AMQPQueue)
	} else {
		slog.Info("transaction events disabled, no AMQP_URL provided")
	}

	var sender notify.Sender
	if cfg.NotifyViaAMQP {
		alertsClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPAlertsQueue)
		if err != nil {
			return err
		}
		defer alertsClient.Close()
		sender = notify.NewAMQPSender(alertsClient)
		slog.Info("alerts routed to queue", "queue", cfg.AMQPAlertsQueue)
	}
	notifier := notify.New(st, sender, cfg.NotificationsEnabled)

	cardSvc := services.NewCardService(st, caches)
	txSvc := services.NewTransactionService(st, caches, publisher, notifier)

	var smsSvc *ingest.Service
	if cfg.GeminiAPIKey != "" {
		classifier, err := ingest.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		smsSvc = ingest.NewService(st, txSvc, classifier, cfg.ClassifyTimeout)
		slog.Info("sms ingestion enabled", "model", cfg.GeminiModel)
	} else {
		slog.Info("sms ingestion disabled, no GEMINI_API_KEY provided")
	}

	srv := apphttp.NewServer(cfg, st, caches, cardSvc, txSvc, smsSvc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "port", cfg.Port, "store_backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
