// Package notify delivers push notifications to device tokens. Dispatch is
// strictly best-effort: failures are logged and swallowed, and a disabled
// dispatcher is a silent no-op, so a broken push gateway can never fail a
// freight operation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tracknarino/backend/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Dispatcher posts notification payloads to the configured push gateway.
// It is built once at startup from AppConfig and injected into features;
// nothing reads push configuration from ambient globals.
type Dispatcher struct {
	enabled   bool
	endpoint  string
	serverKey string
	client    *http.Client
	log       *zap.Logger
}

// Config holds the startup configuration for the dispatcher.
type Config struct {
	Enabled   bool
	Endpoint  string
	ServerKey string
	Timeout   time.Duration
}

// New builds a Dispatcher. A missing endpoint disables dispatch even when
// the enabled flag is set.
func New(cfg Config, log *zap.Logger) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	enabled := cfg.Enabled && cfg.Endpoint != ""
	if cfg.Enabled && cfg.Endpoint == "" {
		log.Warn("push enabled but no endpoint configured; dispatch disabled")
	}
	return &Dispatcher{
		enabled:   enabled,
		endpoint:  cfg.Endpoint,
		serverKey: cfg.ServerKey,
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Enabled reports whether dispatch is active.
func (d *Dispatcher) Enabled() bool { return d.enabled }

type message struct {
	MessageID string `json:"message_id"`
	Token     string `json:"token"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// Send posts one notification. It never returns an error: delivery problems
// are logged and counted, and the caller's operation proceeds regardless.
// An empty token is skipped silently (users without a registered device).
func (d *Dispatcher) Send(ctx context.Context, token, title, body string) {
	if !d.enabled || token == "" {
		return
	}

	msgID := uuid.NewString()
	payload, err := json.Marshal(message{MessageID: msgID, Token: token, Title: title, Body: body})
	if err != nil {
		d.log.Error("notify: marshal failed", zap.Error(err))
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		d.log.Error("notify: building request failed", zap.Error(err))
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if d.serverKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.serverKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.log.Warn("notify: dispatch failed", zap.String("message_id", msgID), zap.Error(err))
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		d.log.Warn("notify: gateway rejected message",
			zap.String("message_id", msgID),
			zap.Int("status", resp.StatusCode))
		metrics.NotificationsTotal.WithLabelValues("rejected").Inc()
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}
