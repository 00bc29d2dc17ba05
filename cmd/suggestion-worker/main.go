// cmd/suggestion-worker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/observability"
	"dining-concierge/internal/restaurants"
	"dining-concierge/internal/suggestions"
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
			delay *= 2
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

	zapLog.Info("starting suggestion-worker",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("suggestion-worker")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Postgres (restaurant records) ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := retryWithBackoff(func() error {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pingCancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Postgres connection"); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	// --- Redis (record cache) ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()
	if err := retryWithBackoff(func() error {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pingCancel()
		return rdb.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Redis connection"); err != nil {
		zapLog.Fatal("redis unreachable", zap.Error(err))
	}

	// --- Elasticsearch (search index) ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	if err := retryWithBackoff(es.Ping, 10, 2*time.Second, zapLog, "Elasticsearch connection"); err != nil {
		zapLog.Fatal("elasticsearch unreachable", zap.Error(err))
	}

	// --- AWS clients ---
	var sqsClient *awsclients.SQSClient
	if err := retryWithBackoff(func() error {
		var err error
		sqsClient, err = awsclients.NewSQSClient(ctx, cfg.AWS.Region)
		return err
	}, 5, 2*time.Second, zapLog, "SQS client initialization"); err != nil {
		zapLog.Fatal("sqs client init failed", zap.Error(err))
	}

	var sesClient *awsclients.SESClient
	if err := retryWithBackoff(func() error {
		var err error
		sesClient, err = awsclients.NewSESClient(ctx, cfg.AWS.Region)
		return err
	}, 5, 2*time.Second, zapLog, "SES client initialization"); err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}

	store := restaurants.NewStore(pg.GetDB(), rdb.GetClient(),
		time.Duration(cfg.Database.Redis.CacheTTL)*time.Second, log)
	fetcher := suggestions.NewFetcher(es.Client, cfg.Search.Index,
		cfg.Search.MaxCandidates, cfg.Search.SampleSize, log)
	hydrator := suggestions.NewHydrator(store, log)
	notifier := suggestions.NewNotifier(sesClient, cfg.AWS.SES.FromEmail, log)

	consumer := suggestions.NewConsumer(sqsClient, cfg.AWS.SQS, fetcher, hydrator, notifier, obs, log)

	// Metrics endpoint for scraping.
	metricsServer := &http.Server{Addr: cfg.HTTP.Address, Handler: metricsMux()}
	go func() {
		zapLog.Info("metrics server listening", zap.String("address", cfg.HTTP.Address))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		zapLog.Info("shutting down suggestion-worker")
		cancel()
	}()

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLog.Error("consumer stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer shutdownCancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}
