package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorHandler normalizes failures and writes them to the HTTP response in the
// gateway's standard error envelope.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleHTTPError logs err and writes the standard error envelope with the
// status mapped from its code.
func (h *ErrorHandler) HandleHTTPError(w http.ResponseWriter, route string, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("request failed", map[string]interface{}{
		"route":     route,
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
	})

	WriteError(w, stdErr)
}

func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// WriteError writes a StandardError as the JSON error envelope.
func WriteError(w http.ResponseWriter, stdErr *StandardError) {
	WriteJSON(w, HTTPStatus(stdErr.Code), map[string]interface{}{"error": stdErr})
}

// WriteErrorStatus writes a StandardError with an explicit status, used when
// the upstream status must be propagated verbatim.
func WriteErrorStatus(w http.ResponseWriter, status int, stdErr *StandardError) {
	WriteJSON(w, status, map[string]interface{}{"error": stdErr})
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
