package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimeservice"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

// BotRuntime is the slice of the Lex runtime API the chat handler needs.
type BotRuntime interface {
	PostText(ctx context.Context, params *lexruntimeservice.PostTextInput, optFns ...func(*lexruntimeservice.Options)) (*lexruntimeservice.PostTextOutput, error)
}

// ChatHandler proxies user messages to the dialog engine and relays its
// reply. All dialog state lives in the engine's session, keyed by user ID.
type ChatHandler struct {
	bot      BotRuntime
	botName  string
	botAlias string
	logger   logger.Logger
}

func NewChatHandler(bot BotRuntime, botName, botAlias string, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		bot:      bot,
		botName:  botName,
		botAlias: botAlias,
		logger:   log.WithFields(map[string]interface{}{"handler": "chat"}),
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Message string `json:"message"`
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChatRequest(r)
	if err != nil {
		writeChatError(w, http.StatusBadRequest, "Invalid JSON format.")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeChatError(w, http.StatusBadRequest, "Invalid input, please provide a message.")
		return
	}

	userID := r.Header.Get("X-Session-Id")
	if userID == "" {
		userID = uuid.New().String()
	}

	out, err := h.bot.PostText(r.Context(), &lexruntimeservice.PostTextInput{
		BotName:   aws.String(h.botName),
		BotAlias:  aws.String(h.botAlias),
		UserId:    aws.String(userID),
		InputText: aws.String(message),
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	reply := aws.ToString(out.Message)
	if reply == "" {
		reply = "I'm not sure how to respond."
	}

	metrics.ChatRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, chatResponse{Message: reply})
}

// decodeChatRequest tolerates a double-encoded body: some front-end
// proxies deliver the JSON object itself wrapped in a JSON string.
func decodeChatRequest(r *http.Request) (*chatRequest, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, err
		}
		raw = json.RawMessage(inner)
	}

	var req chatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// writeEngineError maps dialog-engine failures to fixed responses so the
// front end never sees raw SDK errors.
func (h *ChatHandler) writeEngineError(w http.ResponseWriter, err error) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFoundException":
			h.logger.Error("bot alias not found", map[string]interface{}{"error": err})
			metrics.ChatRequests.WithLabelValues("bot_not_found").Inc()
			writeChatError(w, http.StatusInternalServerError,
				"Error: bot alias not found. Ensure the alias is published.")
			return
		case "AccessDeniedException":
			h.logger.Error("no permission to call dialog engine", map[string]interface{}{"error": err})
			metrics.ChatRequests.WithLabelValues("forbidden").Inc()
			writeChatError(w, http.StatusForbidden,
				"Error: missing permission to call the dialog engine. Update the IAM role.")
			return
		}
	}

	h.logger.Error("dialog engine call failed", map[string]interface{}{"error": err})
	metrics.ChatRequests.WithLabelValues("error").Inc()
	writeChatError(w, http.StatusInternalServerError,
		"An unexpected error occurred while communicating with bot.")
}

func writeChatError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, chatResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
