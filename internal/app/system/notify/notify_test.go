package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tracknarino/backend/internal/app/system/notify"
	"go.uber.org/zap"
)

func TestSend_PostsPayload(t *testing.T) {
	var got struct {
		MessageID string `json:"message_id"`
		Token     string `json:"token"`
		Title     string `json:"title"`
		Body      string `json:"body"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := notify.New(notify.Config{
		Enabled:   true,
		Endpoint:  srv.URL,
		ServerKey: "srv-key",
	}, zap.NewNop())

	d.Send(context.Background(), "device-token-1", "Nueva oportunidad", "Carga de café disponible")

	if got.Token != "device-token-1" {
		t.Errorf("token: got %q", got.Token)
	}
	if got.Title != "Nueva oportunidad" || got.Body != "Carga de café disponible" {
		t.Errorf("payload: got %+v", got)
	}
	if got.MessageID == "" {
		t.Error("message_id missing")
	}
	if auth != "Bearer srv-key" {
		t.Errorf("authorization: got %q", auth)
	}
}

func TestSend_DisabledIsNoOp(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	d := notify.New(notify.Config{Enabled: false, Endpoint: srv.URL}, zap.NewNop())
	d.Send(context.Background(), "device-token-1", "t", "b")

	if d.Enabled() {
		t.Error("dispatcher reports enabled")
	}
	if hits.Load() != 0 {
		t.Errorf("gateway hit %d times, want 0", hits.Load())
	}
}

func TestSend_EmptyTokenSkipped(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	d := notify.New(notify.Config{Enabled: true, Endpoint: srv.URL}, zap.NewNop())
	d.Send(context.Background(), "", "t", "b")

	if hits.Load() != 0 {
		t.Errorf("gateway hit %d times, want 0", hits.Load())
	}
}

func TestSend_GatewayFailureSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := notify.New(notify.Config{Enabled: true, Endpoint: srv.URL, Timeout: time.Second}, zap.NewNop())
	// Must not panic or block; errors are swallowed.
	d.Send(context.Background(), "device-token-1", "t", "b")
}

func TestNew_EnabledWithoutEndpointDisables(t *testing.T) {
	d := notify.New(notify.Config{Enabled: true}, zap.NewNop())
	if d.Enabled() {
		t.Error("dispatcher enabled without endpoint")
	}
}
