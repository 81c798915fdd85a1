// Package apierr maps application failures onto the JSON error responses the
// mobile clients expect. Every handler converts its failures through this
// package; no error crosses a request boundary unhandled.
package apierr

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error is a failure with an HTTP status. Message is user-facing; handlers
// keep internal detail in logs, not in responses.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

// Validation is a 400 for missing or malformed input.
func Validation(msg string) *Error { return &Error{Status: http.StatusBadRequest, Message: msg} }

// NotFound is a 404 for an absent referenced entity.
func NotFound(msg string) *Error { return &Error{Status: http.StatusNotFound, Message: msg} }

// Forbidden is a 403 for an actor lacking the required role or ownership.
func Forbidden(msg string) *Error { return &Error{Status: http.StatusForbidden, Message: msg} }

// Unauthenticated is a 401 for a missing or invalid credential.
func Unauthenticated(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// InvalidState is a 400 for a lifecycle precondition violation. The legacy
// API used 400 (not 409) for these, and the clients match on it.
func InvalidState(msg string) *Error { return &Error{Status: http.StatusBadRequest, Message: msg} }

// Conflict is a 409 for a lost race on a conditional update.
func Conflict(msg string) *Error { return &Error{Status: http.StatusConflict, Message: msg} }

// Internal is a 500 for unexpected failures, including store and external
// service errors.
func Internal(msg string) *Error { return &Error{Status: http.StatusInternalServerError, Message: msg} }

// errorBody carries the message under both keys because older client builds
// read "mensaje" and newer ones read "error".
type errorBody struct {
	Error   string `json:"error"`
	Mensaje string `json:"mensaje"`
}

// Write renders err as JSON. Non-*Error values become 500s with a generic
// message; the original error goes to the log only.
func Write(w http.ResponseWriter, log *zap.Logger, err error) {
	apiErr, ok := err.(*Error)
	if !ok {
		if log != nil {
			log.Error("unhandled error", zap.Error(err))
		}
		apiErr = Internal("error interno del servidor")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: apiErr.Message, Mensaje: apiErr.Message})
}

// JSON writes v with the given status. Encoding failures are ignored; the
// header is already gone by then.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
