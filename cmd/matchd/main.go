// cmd/matchd/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/meirhagag/needme/internal/alerts"
	"github.com/meirhagag/needme/internal/common/config"
	"github.com/meirhagag/needme/internal/common/database"
	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/common/observability"
	"github.com/meirhagag/needme/internal/dispatch"
	"github.com/meirhagag/needme/internal/importer"
	"github.com/meirhagag/needme/internal/intake"
	"github.com/meirhagag/needme/internal/matching"
	"github.com/meirhagag/needme/internal/notifier"
	"github.com/meirhagag/needme/internal/service"
	"github.com/meirhagag/needme/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting matchd...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Provider store: Postgres behind a Redis snapshot cache ---
	pgStore := store.NewPostgresStore(pg.DB, log)
	providerStore := store.NewCachedStore(
		pgStore,
		rdb.Client,
		config.GetDuration(cfg.Match.SnapshotCacheTTL),
		log,
	)

	// --- Mail transport ---
	var mail notifier.Notifier
	switch cfg.Notifier.Provider {
	case "ses":
		sesNotifier, err := notifier.NewSESNotifier(ctx, cfg.Notifier.AWS.Region, cfg.Notifier.FromEmail, log)
		if err != nil {
			zapLog.Fatal("ses notifier init failed", zap.Error(err))
		}
		mail = sesNotifier
	default:
		mail = notifier.NewResendNotifier(cfg.Notifier.Resend.APIKey, cfg.Notifier.FromEmail, log)
	}
	zapLog.Info("Mail transport initialized", zap.String("provider", cfg.Notifier.Provider))

	// --- Optional SNS alerting ---
	var alertSink service.AlertSink
	if cfg.Notifier.SNS.Enabled {
		publisher, err := alerts.NewPublisher(ctx, cfg.Notifier.AWS.Region, cfg.Notifier.SNS.AlertTopicARN, log)
		if err != nil {
			zapLog.Fatal("sns publisher init failed", zap.Error(err))
		}
		alertSink = publisher
		zapLog.Info("SNS alerting enabled", zap.String("topic", cfg.Notifier.SNS.AlertTopicARN))
	}

	// --- Match pipeline ---
	scorer := matching.NewScorer(cfg.Match.Weights)
	ranker := matching.NewRanker(scorer, cfg.Match.ShortlistCap, log)
	dispatcher := dispatch.NewDispatcher(mail, cfg.Match.MaxConcurrent, log)
	svc := service.NewMatchService(providerStore, ranker, dispatcher, alertSink, obs, log)
	imp := importer.New(providerStore, log)

	// --- HTTP server ---
	handlers := intake.NewHandlers(svc, imp, providerStore, log)
	server := intake.NewServer(cfg.Server.ListenAddr, handlers)

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("matchd stopped gracefully")
}
