// ABOUTME: Response envelope and error mapping for the sync HTTP API.
// ABOUTME: Every endpoint answers {ok, data} or {ok, error{code, message}}.

// Package serve provides the HTTP transport for workout sync: the response
// envelope, the route handlers, and the middleware chain.
package serve

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/harperreed/coach/internal/models"
)

// Envelope is the standard response wrapper for all API responses.
// Success: {"ok": true, "data": {...}}
// Error:   {"ok": false, "error": {"code": "...", "message": "...", "details": ...}}
type Envelope struct {
	OK    bool          `json:"ok"`
	Data  any           `json:"data,omitempty"`
	Error *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload holds structured error information.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Standard error codes mapped to HTTP status codes.
const (
	ErrValidation = "validation_error" // 400
	ErrNotFound   = "not_found"        // 404
	ErrInternal   = "internal"         // 500
)

// WriteSuccess writes a JSON success envelope with the given data and status.
func WriteSuccess(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{OK: true, Data: data}); err != nil {
		slog.Error("write success response", "err", err)
	}
}

// WriteError writes a JSON error envelope.
func WriteError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{
		OK: false,
		Error: &ErrorPayload{
			Code:    code,
			Message: message,
		},
	}); err != nil {
		slog.Error("write error response", "err", err)
	}
}

// writeServiceError maps domain errors onto the envelope: validation errors
// become 400, missing documents 404, anything else a logged 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		WriteError(w, ErrValidation, err.Error(), http.StatusBadRequest)
	case models.IsNotFound(err):
		WriteError(w, ErrNotFound, err.Error(), http.StatusNotFound)
	default:
		slog.Error("request failed", "err", err)
		WriteError(w, ErrInternal, "internal server error", http.StatusInternalServerError)
	}
}
