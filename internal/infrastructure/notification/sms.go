package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// ErrSMSRequestFailed is returned when the SMS gateway rejects a message
var ErrSMSRequestFailed = errors.New("sms: request failed")

// NewSMSSender creates the sender selected by cfg.Provider
func NewSMSSender(cfg config.SMSConfig, logger *zap.Logger) (verification.SMSSender, error) {
	switch cfg.Provider {
	case "", "log":
		return NewLogSMSSender(logger), nil
	case "twilio":
		return NewTwilioSMSSender(cfg)
	default:
		return nil, fmt.Errorf("unsupported sms provider %q", cfg.Provider)
	}
}

// LogSMSSender writes messages to the log instead of delivering them.
// Used in development; verification responses then include the code.
type LogSMSSender struct {
	logger *zap.Logger
}

// NewLogSMSSender creates a development SMS sender
func NewLogSMSSender(logger *zap.Logger) *LogSMSSender {
	return &LogSMSSender{logger: logger}
}

// Send logs the message
func (s *LogSMSSender) Send(_ context.Context, phone, body string) error {
	s.logger.Info("SMS (not delivered)",
		zap.String("phone", valueobject.MaskPhone(phone)),
		zap.String("body", body),
	)
	return nil
}

// DevMode reports true
func (s *LogSMSSender) DevMode() bool { return true }

// TwilioSMSSender delivers messages through the Twilio Messages API
type TwilioSMSSender struct {
	endpoint   string
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
}

// twilioError is the error body returned by Twilio
type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewTwilioSMSSender creates a Twilio sender
func NewTwilioSMSSender(cfg config.SMSConfig) (*TwilioSMSSender, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		return nil, errors.New("sms: twilio account sid, auth token and from number are required")
	}
	base := strings.TrimRight(cfg.TwilioBaseURL, "/")
	if base == "" {
		base = "https://api.twilio.com"
	}
	return &TwilioSMSSender{
		endpoint:   base + "/2010-04-01/Accounts/" + url.PathEscape(cfg.TwilioAccountSID) + "/Messages.json",
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioFromNumber,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Send delivers body to phone
func (s *TwilioSMSSender) Send(ctx context.Context, phone, body string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.from)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("sms: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var e twilioError
		_ = json.Unmarshal(raw, &e)
		return fmt.Errorf("%w: HTTP %d: %s", ErrSMSRequestFailed, resp.StatusCode, e.Message)
	}
	return nil
}

// DevMode reports false
func (s *TwilioSMSSender) DevMode() bool { return false }

var (
	_ verification.SMSSender = (*LogSMSSender)(nil)
	_ verification.SMSSender = (*TwilioSMSSender)(nil)
)
