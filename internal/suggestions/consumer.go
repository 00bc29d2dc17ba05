package suggestions

import (
	"context"
	"encoding/json"
	"time"

	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/common/observability"
	"dining-concierge/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Message processing outcomes.
const (
	OutcomeNotified     = "notified"
	OutcomeInvalid      = "invalid"
	OutcomeNoCandidates = "no_candidates"
	OutcomeNoRecords    = "no_records"
	OutcomeNotifyFailed = "notify_failed"
)

// QueueAPI is the slice of the SQS API the consumer needs.
type QueueAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type RecommendationFetcher interface {
	Fetch(ctx context.Context, cuisine string) ([]string, error)
}

type RecordHydrator interface {
	Hydrate(ctx context.Context, businessIDs []string) []models.RestaurantRecord
}

type SuggestionNotifier interface {
	Notify(ctx context.Context, recipient, cuisine string, records []models.RestaurantRecord) error
}

// BatchResult reports how a received batch was handled.
type BatchResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Consumer polls the queue and runs fetch, hydrate, notify for each
// message. Messages are independent: one failure never aborts the batch.
// A message is deleted only after its notification went out, so delivery
// is at-least-once and duplicate emails are possible when a delete fails.
type Consumer struct {
	queue    QueueAPI
	queueURL string
	sqsCfg   config.SQSConfig
	fetcher  RecommendationFetcher
	hydrator RecordHydrator
	notifier SuggestionNotifier
	validate *validator.Validate
	obs      *observability.Observability
	logger   logger.Logger
}

func NewConsumer(queue QueueAPI, sqsCfg config.SQSConfig, fetcher RecommendationFetcher, hydrator RecordHydrator, notifier SuggestionNotifier, obs *observability.Observability, log logger.Logger) *Consumer {
	return &Consumer{
		queue:    queue,
		queueURL: sqsCfg.QueueURL,
		sqsCfg:   sqsCfg,
		fetcher:  fetcher,
		hydrator: hydrator,
		notifier: notifier,
		validate: validator.New(),
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "consumer"}),
	}
}

// Run polls the queue with a bounded wait until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started", map[string]interface{}{
		"queueUrl":    c.queueURL,
		"maxMessages": c.sqsCfg.MaxMessages,
	})

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopped", nil)
			return ctx.Err()
		default:
		}

		out, err := c.queue.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: int32(c.sqsCfg.MaxMessages),
			WaitTimeSeconds:     int32(c.sqsCfg.WaitSeconds),
			VisibilityTimeout:   int32(c.sqsCfg.VisibilityTimeout),
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("queue receive failed", map[string]interface{}{"error": err})
			time.Sleep(config.GetDuration(c.sqsCfg.PollInterval))
			continue
		}

		if len(out.Messages) == 0 {
			continue
		}
		c.ProcessBatch(ctx, out.Messages)
	}
}

// ProcessBatch handles each message independently and returns the counts.
func (c *Consumer) ProcessBatch(ctx context.Context, messages []sqstypes.Message) BatchResult {
	executionID := uuid.New().String()
	log := c.logger.WithFields(map[string]interface{}{"executionId": executionID})
	log.Info("processing batch", map[string]interface{}{"messages": len(messages)})

	var result BatchResult
	for _, msg := range messages {
		start := time.Now()
		outcome := c.processMessage(ctx, log, msg)

		metrics.MessagesProcessed.WithLabelValues(outcome).Inc()
		c.obs.RecordMessageProcessed(ctx, outcome)
		c.obs.RecordMessageDuration(ctx, time.Since(start), outcome)

		if outcome == OutcomeNotified {
			result.Processed++
		} else {
			result.Skipped++
		}
	}

	log.Info("batch done", map[string]interface{}{
		"processed": result.Processed,
		"skipped":   result.Skipped,
	})
	return result
}

// processMessage runs one message through the pipeline and returns its
// outcome. Any skip leaves the message on the queue for the queue's own
// redelivery and expiry policy.
func (c *Consumer) processMessage(ctx context.Context, log logger.Logger, msg sqstypes.Message) string {
	messageID := aws.ToString(msg.MessageId)

	var request models.DiningRequest
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &request); err != nil {
		log.Error("invalid message body", map[string]interface{}{
			"messageId": messageID,
			"error":     err,
		})
		return OutcomeInvalid
	}
	if err := c.validate.Struct(&request); err != nil {
		log.Error("message missing cuisine or email", map[string]interface{}{
			"messageId": messageID,
			"error":     err,
		})
		return OutcomeInvalid
	}

	log.Info("processing dining request", map[string]interface{}{
		"messageId": messageID,
		"cuisine":   request.Cuisine,
		"recipient": request.Email,
	})

	businessIDs, err := c.fetcher.Fetch(ctx, request.Cuisine)
	if err != nil {
		// Degrades to "no candidates": the message stays queued and the
		// next delivery retries against the index.
		log.Error("search failed, treating as zero hits", map[string]interface{}{
			"messageId": messageID,
			"cuisine":   request.Cuisine,
			"error":     err,
		})
		return OutcomeNoCandidates
	}
	if len(businessIDs) == 0 {
		log.Warn("no candidates for cuisine", map[string]interface{}{
			"messageId": messageID,
			"cuisine":   request.Cuisine,
		})
		return OutcomeNoCandidates
	}

	records := c.hydrator.Hydrate(ctx, businessIDs)
	if len(records) == 0 {
		log.Warn("no restaurant records hydrated, leaving message queued", map[string]interface{}{
			"messageId": messageID,
			"cuisine":   request.Cuisine,
		})
		return OutcomeNoRecords
	}

	if err := c.notifier.Notify(ctx, request.Email, request.Cuisine, records); err != nil {
		log.Error("notification failed, leaving message queued", map[string]interface{}{
			"messageId": messageID,
			"recipient": request.Email,
			"error":     err,
		})
		return OutcomeNotifyFailed
	}

	if _, err := c.queue.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	}); err != nil {
		// The notification went out; redelivery will duplicate it. Accepted.
		log.Error("message delete failed", map[string]interface{}{
			"messageId": messageID,
			"error":     err,
		})
	} else {
		log.Info("message deleted", map[string]interface{}{"messageId": messageID})
	}
	return OutcomeNotified
}
