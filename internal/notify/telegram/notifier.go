// Package telegram delivers alerts through the Telegram bot API.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.telegram.org"

// Config captures the notifier settings.
type Config struct {
	// Token is the bot token; empty disables delivery entirely.
	Token string
	// BaseURL overrides the API host (tests only).
	BaseURL string
	// Timeout bounds one sendMessage call.
	Timeout time.Duration
}

// Notifier implements tender.Notifier over the bot sendMessage endpoint.
// With no token configured every Notify becomes a logged no-op, so the
// pipeline keeps running in environments without credentials.
type Notifier struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// New builds a Notifier. It never fails: a missing token yields a disabled
// notifier rather than an error.
func New(cfg Config, logger *zap.Logger) *Notifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Notifier{
		token:   cfg.Token,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Enabled reports whether a token is configured.
func (n *Notifier) Enabled() bool {
	return n.token != ""
}

// Notify posts a Markdown message to one chat.
func (n *Notifier) Notify(ctx context.Context, recipientID string, message string) error {
	if !n.Enabled() {
		n.logger.Debug("telegram disabled, dropping message", zap.String("recipient", recipientID))
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	form := url.Values{}
	form.Set("chat_id", recipientID)
	form.Set("text", message)
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The API describes the rejection in the body, e.g. a bad
		// chat id or Markdown parse failure.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("telegram error: %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	// Drain so the keep-alive connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
