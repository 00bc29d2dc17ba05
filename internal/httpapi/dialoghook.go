package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/dialog"

	"github.com/xeipuuv/gojsonschema"
)

// eventSchema is the envelope contract for inbound dialog events. The
// slot values themselves stay loose; only the structure the dispatcher
// relies on is enforced at the boundary.
var eventSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"currentIntent"},
	"properties": map[string]interface{}{
		"invocationSource": map[string]interface{}{"type": "string"},
		"sessionAttributes": map[string]interface{}{
			"type": []interface{}{"object", "null"},
		},
		"currentIntent": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"name"},
			"properties": map[string]interface{}{
				"name": map[string]interface{}{"type": "string", "minLength": 1},
				"slots": map[string]interface{}{
					"type": []interface{}{"object", "null"},
				},
			},
		},
	},
}

// DialogHandler is the webhook the dialog engine calls on every turn.
type DialogHandler struct {
	dispatcher *dialog.Dispatcher
	logger     logger.Logger
}

func NewDialogHandler(dispatcher *dialog.Dispatcher, log logger.Logger) *DialogHandler {
	return &DialogHandler{
		dispatcher: dispatcher,
		logger:     log.WithFields(map[string]interface{}{"handler": "dialog"}),
	}
}

func (h *DialogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeChatError(w, http.StatusBadRequest, "Invalid JSON format.")
		return
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		writeChatError(w, http.StatusBadRequest, "Invalid JSON format.")
		return
	}

	schemaLoader := gojsonschema.NewGoLoader(eventSchema)
	documentLoader := gojsonschema.NewGoLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil || !result.Valid() {
		h.logger.Warn("dialog event failed schema validation", map[string]interface{}{
			"error": err,
		})
		writeChatError(w, http.StatusBadRequest, "Malformed dialog event.")
		return
	}

	ev, err := dialog.ParseEvent(body)
	if err != nil {
		writeChatError(w, http.StatusBadRequest, "Malformed dialog event.")
		return
	}

	resp, err := h.dispatcher.Dispatch(r.Context(), ev)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeUnsupportedIntent) {
			writeChatError(w, http.StatusBadRequest, "Intent not supported.")
			return
		}
		h.logger.Error("dialog dispatch failed", map[string]interface{}{
			"intent": ev.CurrentIntent.Name,
			"error":  err,
		})
		writeChatError(w, http.StatusInternalServerError, "Dialog processing failed.")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
