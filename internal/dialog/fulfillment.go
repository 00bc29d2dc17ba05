package dialog

import (
	"context"
	"encoding/json"
	"fmt"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// QueueProducer is the slice of the SQS API the fulfillment handler needs.
type QueueProducer interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// FulfillmentHandler drives the DiningSuggestionsIntent through its two
// phases: per-turn slot validation while the engine is still eliciting,
// and the final fulfillment that enqueues the completed request.
type FulfillmentHandler struct {
	queue     QueueProducer
	queueURL  string
	validator *Validator
	logger    logger.Logger
}

func NewFulfillmentHandler(queue QueueProducer, queueURL string, validator *Validator, log logger.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		queue:     queue,
		queueURL:  queueURL,
		validator: validator,
		logger:    log.WithFields(map[string]interface{}{"intent": IntentDiningSuggestions}),
	}
}

func (h *FulfillmentHandler) Handle(ctx context.Context, ev *Event) (*Response, error) {
	sessionAttributes := ev.SessionAttributes
	if sessionAttributes == nil {
		sessionAttributes = map[string]string{}
	}
	slots := ev.CurrentIntent.Slots

	if ev.InvocationSource == SourceDialogCodeHook {
		return h.dialogTurn(sessionAttributes, ev.CurrentIntent.Name, slots), nil
	}
	return h.fulfill(ctx, sessionAttributes, slots)
}

// dialogTurn validates the slots filled so far. An invalid slot is
// cleared and re-elicited with the validation message; otherwise the
// engine is delegated to continue on its own.
func (h *FulfillmentHandler) dialogTurn(sessionAttributes map[string]string, intentName string, slots Slots) *Response {
	result := h.validator.Validate(&slots)
	if !result.Valid {
		h.logger.Debug("slot validation failed", map[string]interface{}{
			"slot":    result.ViolatedSlot,
			"message": result.Message,
		})
		metrics.SlotValidationFailures.WithLabelValues(result.ViolatedSlot).Inc()
		slots.Clear(result.ViolatedSlot)
		return ElicitSlot(sessionAttributes, intentName, &slots, result.ViolatedSlot, result.Message)
	}
	return Delegate(sessionAttributes, &slots)
}

// fulfill serializes the validated slots into a DiningRequest, enqueues
// it, and closes the conversation with a confirmation. There is no dedup:
// a retried fulfillment turn can enqueue the same request twice.
func (h *FulfillmentHandler) fulfill(ctx context.Context, sessionAttributes map[string]string, slots Slots) (*Response, error) {
	request := models.DiningRequest{
		Location:   slots.Get(SlotLocation),
		Cuisine:    slots.Get(SlotCuisine),
		DiningDate: slots.Get(SlotDiningDate),
		DiningTime: slots.Get(SlotDiningTime),
		PartySize:  slots.Get(SlotPartySize),
		Email:      slots.Get(SlotEmail),
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, errors.NewMalformedInputError(err.Error())
	}

	if _, err := h.queue.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(h.queueURL),
		MessageBody: aws.String(string(body)),
	}); err != nil {
		h.logger.Error("enqueue failed", map[string]interface{}{"error": err})
		return nil, errors.NewQueueSendFailedError(err)
	}
	metrics.RequestsEnqueued.Inc()

	h.logger.Info("dining request enqueued", map[string]interface{}{
		"cuisine":  request.Cuisine,
		"location": request.Location,
	})

	confirmation := fmt.Sprintf(
		"Thank you! I will send restaurant suggestions for %s cuisine in %s on %s at %s for %s people. You will receive the details at %s.",
		request.Cuisine, request.Location, request.DiningDate, request.DiningTime, request.PartySize, request.Email,
	)
	return Close(sessionAttributes, FulfillmentStateFulfilled, confirmation), nil
}
