// Package notification talks to the Telegram Bot API and SMS gateways.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize caps how much of a gateway response is read
const maxResponseSize = 1 << 20

// ErrTelegramRequestFailed is returned when the Bot API rejects a call
var ErrTelegramRequestFailed = errors.New("telegram: request failed")

// TelegramClient sends messages to a single chat through the Bot API
type TelegramClient struct {
	baseURL    string
	chatID     string
	httpClient *http.Client
}

// telegramResponse is the common Bot API reply envelope
type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramClient creates a Bot API client for cfg.ChatID
func NewTelegramClient(cfg config.TelegramConfig) (*TelegramClient, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, errors.New("telegram: bot token and chat id are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.APIBaseURL, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	return &TelegramClient{
		baseURL: base + "/bot" + cfg.BotToken,
		chatID:  cfg.ChatID,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// SendMessage posts an HTML formatted message
func (c *TelegramClient) SendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]any{
		"chat_id":    c.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("telegram: failed to encode message: %w", err)
	}
	return c.do(ctx, "sendMessage", "application/json", bytes.NewReader(body))
}

// SendPhoto uploads a photo with an optional HTML caption
func (c *TelegramClient) SendPhoto(ctx context.Context, filename string, photo io.Reader, caption string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{"chat_id": c.chatID}
	if caption != "" {
		fields["caption"] = caption
		fields["parse_mode"] = "HTML"
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("telegram: failed to build form: %w", err)
		}
	}
	part, err := w.CreateFormFile("photo", filename)
	if err != nil {
		return fmt.Errorf("telegram: failed to build form: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return fmt.Errorf("telegram: failed to read photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("telegram: failed to build form: %w", err)
	}

	return c.do(ctx, "sendPhoto", w.FormDataContentType(), &buf)
}

func (c *TelegramClient) do(ctx context.Context, method, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, body)
	if err != nil {
		return fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("telegram: failed to read response: %w", err)
	}

	var out telegramResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode >= 400 || !out.OK {
		desc := out.Description
		if desc == "" {
			desc = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %s: HTTP %d: %s", ErrTelegramRequestFailed, method, resp.StatusCode, desc)
	}
	return nil
}
