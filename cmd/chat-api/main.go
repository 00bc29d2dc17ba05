// cmd/chat-api/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	awsclients "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/dialog"
	"dining-concierge/internal/httpapi"
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

	zapLog.Info("starting chat-api",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	var lexClient *awsclients.LexClient
	err = retryWithBackoff(func() error {
		var err error
		lexClient, err = awsclients.NewLexClient(ctx, cfg.AWS.Region)
		return err
	}, 5, 2*time.Second, zapLog, "Lex client initialization")
	if err != nil {
		zapLog.Fatal("lex client init failed", zap.Error(err))
	}

	var sqsClient *awsclients.SQSClient
	err = retryWithBackoff(func() error {
		var err error
		sqsClient, err = awsclients.NewSQSClient(ctx, cfg.AWS.Region)
		return err
	}, 5, 2*time.Second, zapLog, "SQS client initialization")
	if err != nil {
		zapLog.Fatal("sqs client init failed", zap.Error(err))
	}

	fulfillment := dialog.NewFulfillmentHandler(sqsClient, cfg.AWS.SQS.QueueURL, dialog.NewValidator(), log)
	dispatcher := dialog.NewDispatcher(fulfillment, log)

	chatHandler := httpapi.NewChatHandler(lexClient, cfg.AWS.Lex.BotName, cfg.AWS.Lex.BotAlias, log)
	dialogHandler := httpapi.NewDialogHandler(dispatcher, log)

	router := mux.NewRouter()
	httpapi.RegisterRoutes(router, chatHandler, dialogHandler)

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down chat-api")
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
}
