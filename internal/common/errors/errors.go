// Package errors provides standardized error handling for the concierge pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeUnsupportedIntent ErrorCode = "UNSUPPORTED_INTENT"
	ErrCodeMalformedInput    ErrorCode = "MALFORMED_INPUT"

	ErrCodeDialogEngineUnavailable ErrorCode = "DIALOG_ENGINE_UNAVAILABLE"
	ErrCodeDialogEngineNotFound    ErrorCode = "DIALOG_ENGINE_NOT_FOUND"
	ErrCodeDialogEngineForbidden   ErrorCode = "DIALOG_ENGINE_FORBIDDEN"

	ErrCodeSearchQueryFailed  ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeRecordLookupFailed ErrorCode = "RECORD_LOOKUP_FAILED"
	ErrCodeRecordNotFound     ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeQueueSendFailed    ErrorCode = "QUEUE_SEND_FAILED"
	ErrCodeQueueReceiveFailed ErrorCode = "QUEUE_RECEIVE_FAILED"
	ErrCodeQueueDeleteFailed  ErrorCode = "QUEUE_DELETE_FAILED"

	ErrCodeEmailSendFailed ErrorCode = "EMAIL_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target carries the same error code, so callers can
// match with errors.Is against a sentinel constructed with the same code.
func (e *StandardError) Is(target error) bool {
	var std *StandardError
	if errors.As(target, &std) {
		return std.Code == e.Code
	}
	return false
}

// HasCode reports whether err is a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code == code
	}
	return false
}

// NewUnsupportedIntentError creates a non-retryable error for intents
// outside the dispatch table. Callers must handle it explicitly.
func NewUnsupportedIntentError(intentName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedIntent,
		Message:   "Intent not supported",
		Details:   fmt.Sprintf("intentName: %s", intentName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedInputError creates a non-retryable error for bad top-level input.
func NewMalformedInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedInput,
		Message:   "Malformed request input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDialogEngineUnavailableError creates a retryable dialog engine error.
func NewDialogEngineUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDialogEngineUnavailable,
		Message:   "Dialog engine call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search index error.
func NewSearchQueryFailedError(cuisine string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Search index query failed",
		Details:   fmt.Sprintf("cuisine: %s, error: %s", cuisine, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordLookupFailedError creates a retryable store lookup error.
func NewRecordLookupFailedError(businessID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordLookupFailed,
		Message:   "Restaurant record lookup failed",
		Details:   fmt.Sprintf("businessId: %s, error: %s", businessID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable miss for a single identifier.
func NewRecordNotFoundError(businessID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Restaurant record not found",
		Details:   fmt.Sprintf("businessId: %s", businessID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueSendFailedError creates a retryable queue producer error.
func NewQueueSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueSendFailed,
		Message:   "Queue send failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueReceiveFailedError creates a retryable queue consumer error.
func NewQueueReceiveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueReceiveFailed,
		Message:   "Queue receive failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueDeleteFailedError creates an error for a failed message delete.
// The message stays on the queue and will be redelivered, so the failure is
// logged rather than propagated.
func NewQueueDeleteFailedError(messageID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueDeleteFailed,
		Message:   "Queue message delete failed",
		Details:   fmt.Sprintf("messageId: %s, error: %s", messageID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmailSendFailedError creates an error for a failed notification send.
func NewEmailSendFailedError(recipient string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Notification email send failed",
		Details:   fmt.Sprintf("recipient: %s, error: %s", recipient, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
