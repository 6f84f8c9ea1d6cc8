package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"VelRecover/internal/config"
)

const (
	EventStart   = "start"
	EventSuccess = "success"
	EventError   = "error"
)

// WebhookNotifier posts recovery lifecycle events as JSON to a single
// webhook URL.
type WebhookNotifier struct {
	url    string
	events map[string]struct{}
	host   string
	client *http.Client
}

type webhookPayload struct {
	Event     string `json:"event"`
	Prefix    string `json:"prefix"`
	Cutoff    string `json:"cutoff,omitempty"`
	Restored  int    `json:"restored,omitempty"`
	Deleted   int    `json:"deleted,omitempty"`
	Failed    int    `json:"failed,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Error     string `json:"error,omitempty"`
	Host      string `json:"host"`
	Timestamp string `json:"timestamp"`
}

func NewWebhook(cfg *config.WebhookConfig) (*WebhookNotifier, error) {
	if cfg == nil || !cfg.Enabled || cfg.URL == "" {
		return nil, fmt.Errorf("webhook notifier disabled or missing url")
	}
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	timeout := 10 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	events := make(map[string]struct{})
	for _, e := range cfg.Events {
		events[e] = struct{}{}
	}
	return &WebhookNotifier{
		url:    cfg.URL,
		events: events,
		host:   host,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (w *WebhookNotifier) allowed(event string) bool {
	if len(w.events) == 0 {
		return true
	}
	_, ok := w.events[event]
	return ok
}

func (w *WebhookNotifier) send(ctx context.Context, p webhookPayload) error {
	if !w.allowed(p.Event) {
		return nil
	}
	p.Host = w.host
	p.Timestamp = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("webhook marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook post: unexpected status %s", resp.Status)
	}
	return nil
}

func (w *WebhookNotifier) NotifyStart(ctx context.Context, prefix string, cutoff time.Time) error {
	return w.send(ctx, webhookPayload{
		Event:  EventStart,
		Prefix: prefix,
		Cutoff: cutoff.UTC().Format(time.RFC3339),
	})
}

func (w *WebhookNotifier) NotifySuccess(ctx context.Context, prefix string, restored, deleted, failed int, duration time.Duration) error {
	return w.send(ctx, webhookPayload{
		Event:    EventSuccess,
		Prefix:   prefix,
		Restored: restored,
		Deleted:  deleted,
		Failed:   failed,
		Duration: duration.Round(time.Second).String(),
	})
}

func (w *WebhookNotifier) NotifyError(ctx context.Context, prefix string, err error) error {
	return w.send(ctx, webhookPayload{
		Event:  EventError,
		Prefix: prefix,
		Error:  err.Error(),
	})
}
