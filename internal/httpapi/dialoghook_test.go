package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/dialog"
)

type recordingQueue struct {
	sent []*sqs.SendMessageInput
}

func (q *recordingQueue) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	q.sent = append(q.sent, params)
	return &sqs.SendMessageOutput{}, nil
}

func newDialogTest(t *testing.T) (*DialogHandler, *recordingQueue) {
	queue := &recordingQueue{}
	log := logger.NewTestLogger(t)
	fulfillment := dialog.NewFulfillmentHandler(queue, "https://queue.example/dining", dialog.NewValidator(), log)
	dispatcher := dialog.NewDispatcher(fulfillment, log)
	return NewDialogHandler(dispatcher, log), queue
}

func postDialog(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/dialog", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDialogHandler_InvalidLocationElicited(t *testing.T) {
	h, queue := newDialogTest(t)

	rec := postDialog(h, `{
		"invocationSource": "DialogCodeHook",
		"sessionAttributes": {},
		"currentIntent": {
			"name": "DiningSuggestionsIntent",
			"slots": {"Location": "Chicago"}
		}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dialog.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dialog.ActionElicitSlot, resp.DialogAction.Type)
	assert.Equal(t, dialog.SlotLocation, resp.DialogAction.SlotToElicit)
	assert.Contains(t, resp.DialogAction.Message.Content, "Chicago")
	assert.Empty(t, queue.sent)
}

func TestDialogHandler_FulfillmentCloses(t *testing.T) {
	h, queue := newDialogTest(t)

	rec := postDialog(h, `{
		"invocationSource": "FulfillmentCodeHook",
		"sessionAttributes": {},
		"currentIntent": {
			"name": "DiningSuggestionsIntent",
			"slots": {
				"Location": "Manhattan",
				"Cuisine": "Italian",
				"DiningDate": "2025-03-14",
				"DiningTime": "19:00",
				"PartySize": "4",
				"Email": "diner@example.com"
			}
		}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dialog.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dialog.ActionClose, resp.DialogAction.Type)
	assert.Equal(t, dialog.FulfillmentStateFulfilled, resp.DialogAction.FulfillmentState)
	assert.Contains(t, resp.DialogAction.Message.Content, "Italian")
	assert.Contains(t, resp.DialogAction.Message.Content, "Manhattan")

	require.Len(t, queue.sent, 1)
	assert.Contains(t, *queue.sent[0].MessageBody, "diner@example.com")
}

func TestDialogHandler_UnsupportedIntent(t *testing.T) {
	h, _ := newDialogTest(t)

	rec := postDialog(h, `{
		"invocationSource": "FulfillmentCodeHook",
		"currentIntent": {"name": "OrderPizzaIntent", "slots": {}}
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Intent not supported.", resp.Message)
}

func TestDialogHandler_MalformedEvent(t *testing.T) {
	h, _ := newDialogTest(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `{not json`, "Invalid JSON format."},
		{"missing currentIntent", `{"invocationSource":"DialogCodeHook"}`, "Malformed dialog event."},
		{"missing intent name", `{"currentIntent":{"slots":{}}}`, "Malformed dialog event."},
		{"empty intent name", `{"currentIntent":{"name":""}}`, "Malformed dialog event."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postDialog(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp chatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Message)
		})
	}
}

func TestDialogHandler_ThankYouIntent(t *testing.T) {
	h, _ := newDialogTest(t)

	rec := postDialog(h, `{
		"invocationSource": "FulfillmentCodeHook",
		"currentIntent": {"name": "ThankYouIntent", "slots": {}}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dialog.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, dialog.ActionClose, resp.DialogAction.Type)
	assert.Equal(t, "You're welcome! Let me know if you need anything else.", resp.DialogAction.Message.Content)
}
