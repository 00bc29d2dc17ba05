package dialog

import (
	"context"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
)

// Dispatcher routes an inbound dialog event to its intent handler. The
// intent table is closed; an unknown intent name is an error the caller
// must handle, not a silent fallthrough.
type Dispatcher struct {
	fulfillment *FulfillmentHandler
	logger      logger.Logger
}

func NewDispatcher(fulfillment *FulfillmentHandler, log logger.Logger) *Dispatcher {
	return &Dispatcher{fulfillment: fulfillment, logger: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) (*Response, error) {
	intentName := ev.CurrentIntent.Name
	d.logger.Debug("dispatching intent", map[string]interface{}{"intent": intentName})

	resp, err := d.dispatch(ctx, ev)
	if err != nil {
		metrics.DialogTurns.WithLabelValues(intentName, "error").Inc()
		return nil, err
	}
	metrics.DialogTurns.WithLabelValues(intentName, resp.DialogAction.Type).Inc()
	return resp, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, ev *Event) (*Response, error) {
	switch ev.CurrentIntent.Name {
	case IntentDiningSuggestions:
		return d.fulfillment.Handle(ctx, ev)
	case IntentThankYou:
		return Close(map[string]string{}, FulfillmentStateFulfilled,
			"You're welcome! Let me know if you need anything else."), nil
	case IntentGreeting:
		return Close(map[string]string{}, FulfillmentStateFulfilled,
			"Hi there! How can I assist you today?"), nil
	default:
		return nil, errors.NewUnsupportedIntentError(ev.CurrentIntent.Name)
	}
}
