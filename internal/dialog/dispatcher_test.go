package dialog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	fulfillment := newTestFulfillmentHandler(t, &mockQueueProducer{})
	return NewDispatcher(fulfillment, logger.NewTestLogger(t))
}

func TestDispatcher_ThankYouIntent(t *testing.T) {
	d := newTestDispatcher(t)

	resp, err := d.Dispatch(context.Background(), &Event{
		CurrentIntent: Intent{Name: IntentThankYou},
	})
	require.NoError(t, err)

	assert.Equal(t, ActionClose, resp.DialogAction.Type)
	assert.Equal(t, FulfillmentStateFulfilled, resp.DialogAction.FulfillmentState)
	assert.Equal(t, "You're welcome! Let me know if you need anything else.", resp.DialogAction.Message.Content)
}

func TestDispatcher_GreetingIntent(t *testing.T) {
	d := newTestDispatcher(t)

	resp, err := d.Dispatch(context.Background(), &Event{
		CurrentIntent: Intent{Name: IntentGreeting},
	})
	require.NoError(t, err)

	assert.Equal(t, ActionClose, resp.DialogAction.Type)
	assert.Equal(t, "Hi there! How can I assist you today?", resp.DialogAction.Message.Content)
}

func TestDispatcher_DiningSuggestionsRouted(t *testing.T) {
	d := newTestDispatcher(t)

	resp, err := d.Dispatch(context.Background(), &Event{
		InvocationSource: SourceDialogCodeHook,
		CurrentIntent: Intent{
			Name:  IntentDiningSuggestions,
			Slots: Slots{Location: strPtr("Manhattan")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, ActionDelegate, resp.DialogAction.Type)
}

func TestDispatcher_UnknownIntent(t *testing.T) {
	d := newTestDispatcher(t)

	resp, err := d.Dispatch(context.Background(), &Event{
		CurrentIntent: Intent{Name: "OrderPizzaIntent"},
	})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeUnsupportedIntent))
}
