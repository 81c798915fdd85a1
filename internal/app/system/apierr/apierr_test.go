package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestWrite_TypedError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", Validation("faltan campos"), http.StatusBadRequest},
		{"not found", NotFound("no encontrada"), http.StatusNotFound},
		{"forbidden", Forbidden("sin permisos"), http.StatusForbidden},
		{"unauthenticated", Unauthenticated("token invalido"), http.StatusUnauthorized},
		{"invalid state", InvalidState("estado invalido"), http.StatusBadRequest},
		{"conflict", Conflict("ya asignada"), http.StatusConflict},
		{"internal", Internal("error interno"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Write(rec, zap.NewNop(), tt.err)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}

			var body struct {
				Error   string `json:"error"`
				Mensaje string `json:"mensaje"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body.Error != tt.err.Message || body.Mensaje != tt.err.Message {
				t.Errorf("body: got error=%q mensaje=%q, want both %q", body.Error, body.Mensaje, tt.err.Message)
			}
		})
	}
}

func TestWrite_UnknownErrorBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, zap.NewNop(), errors.New("mongo: connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	// Internal detail must not leak to the client.
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "error interno del servidor" {
		t.Errorf("body leaked internal detail: %q", body.Error)
	}
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"mensaje": "ok"})
	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
}
