// Package verification issues and checks the SMS codes that prove a customer owns a phone number.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Verification outcomes recorded in metrics
const (
	OutcomeVerified        = "verified"
	OutcomeInvalid         = "invalid"
	OutcomeExpired         = "expired"
	OutcomeTooManyAttempts = "too_many_attempts"
	OutcomeAlreadyUsed     = "already_used"
	OutcomeNotFound        = "not_found"
)

// ErrSMSFailed is returned when the gateway rejected the message
var ErrSMSFailed = shared.NewDomainError("SMS_SEND_FAILED", "Failed to send SMS. Please try again later.")

// Config holds code issuing rules
type Config struct {
	Provider       string
	CodeLength     int
	CodeTTL        time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
}

// DefaultConfig returns the rules used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Provider:       "log",
		CodeLength:     verification.DefaultCodeLength,
		CodeTTL:        10 * time.Minute,
		ResendCooldown: 60 * time.Second,
		MaxAttempts:    5,
	}
}

// Option customises the service
type Option func(*Service)

// WithClock replaces the wall clock
func WithClock(clock shared.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithCodeGenerator replaces the random code source
func WithCodeGenerator(gen verification.CodeGenerator) Option {
	return func(s *Service) { s.codes = gen }
}

// WithMetrics records sends and checks in the booking metrics
func WithMetrics(m *telemetry.BookingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service handles phone verification
type Service struct {
	store   verification.Store
	sender  verification.SMSSender
	codes   verification.CodeGenerator
	clock   shared.Clock
	config  Config
	metrics *telemetry.BookingMetrics
	logger  *zap.Logger
}

// NewService creates a new phone verification service
func NewService(store verification.Store, sender verification.SMSSender, config Config, logger *zap.Logger, opts ...Option) *Service {
	def := DefaultConfig()
	if config.CodeLength == 0 {
		config.CodeLength = def.CodeLength
	}
	if config.CodeTTL == 0 {
		config.CodeTTL = def.CodeTTL
	}
	if config.Provider == "" {
		config.Provider = def.Provider
	}

	s := &Service{
		store:  store,
		sender: sender,
		codes:  verification.RandomCodeGenerator{},
		clock:  shared.SystemClock{},
		config: config,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendCode issues a new code for phone and texts it.
// Within the resend cooldown the previous code stays valid and TOO_MANY_REQUESTS is returned.
func (s *Service) SendCode(ctx context.Context, rawPhone string) (result *SendCodeResult, err error) {
	phone, err := valueobject.NewPhone(rawPhone)
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "verification", "send_code", telemetry.SpanAttrPhone, phone.Masked())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	now := s.clock.Now()
	existing, err := s.store.Get(ctx, phone.String())
	switch {
	case err == nil:
		if s.config.ResendCooldown > 0 && now.Sub(existing.CreatedAt) < s.config.ResendCooldown {
			s.logger.Info("Code requested within cooldown", logger.Phone(phone.String()))
			return nil, verification.ErrResendTooSoon
		}
	case errors.Is(err, shared.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to load verification: %w", err)
	}

	code, err := s.codes.Generate(s.config.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	v := verification.NewPhoneVerification(phone.String(), code, s.config.CodeTTL, now)
	if err := s.store.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to store verification: %w", err)
	}

	minutes := int(s.config.CodeTTL.Round(time.Minute) / time.Minute)
	body := fmt.Sprintf("Your Złota Rączka verification code: %s. Valid for %d min.", code, max(minutes, 1))
	sendErr := s.sender.Send(ctx, phone.String(), body)
	s.metrics.RecordCodeSent(ctx, s.config.Provider, sendErr)
	if sendErr != nil {
		if err := s.store.Delete(ctx, phone.String()); err != nil {
			s.logger.Warn("Failed to drop verification after SMS failure", logger.Phone(phone.String()), zap.Error(err))
		}
		s.logger.Error("Failed to send verification SMS", logger.Phone(phone.String()), zap.Error(sendErr))
		return nil, shared.WrapDomainError(ErrSMSFailed.Code, ErrSMSFailed.Message, sendErr)
	}

	s.logger.Info("Verification code sent", logger.Phone(phone.String()))

	stage, err := booking.NextStage(booking.FormStageForm, booking.FormActionCodeSent)
	if err != nil {
		return nil, err
	}
	result = &SendCodeResult{
		Message:   "Verification code sent",
		Stage:     stage,
		ExpiresIn: int(s.config.CodeTTL / time.Second),
		DevMode:   s.sender.DevMode(),
	}
	if result.DevMode {
		result.Message = fmt.Sprintf("Code: %s (test mode)", code)
	}
	return result, nil
}

// VerifyCode checks code for phone and persists the outcome
func (s *Service) VerifyCode(ctx context.Context, rawPhone, code string) (result *VerifyCodeResult, err error) {
	phone, err := valueobject.NewPhone(rawPhone)
	if err != nil {
		return nil, err
	}
	if err := verification.ValidateCode(code); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "verification", "verify_code", telemetry.SpanAttrPhone, phone.Masked())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	v, err := s.store.Get(ctx, phone.String())
	if errors.Is(err, shared.ErrNotFound) {
		s.metrics.RecordVerification(ctx, OutcomeNotFound)
		return nil, verification.ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load verification: %w", err)
	}

	checkErr := v.Check(code, s.clock.Now(), s.config.MaxAttempts)
	s.metrics.RecordVerification(ctx, outcomeOf(checkErr))
	if checkErr == nil || errors.Is(checkErr, verification.ErrInvalidCode) {
		// verified flag or attempt counter changed
		if err := s.store.Save(ctx, v); err != nil {
			return nil, fmt.Errorf("failed to store verification: %w", err)
		}
	}
	if checkErr != nil {
		s.logger.Info("Verification failed", logger.Phone(phone.String()), zap.Error(checkErr), zap.Int("attempts", v.Attempts))
		return nil, checkErr
	}

	s.logger.Info("Phone verified", logger.Phone(phone.String()))
	stage, err := booking.NextStage(booking.FormStageVerification, booking.FormActionCodeVerified)
	if err != nil {
		return nil, err
	}
	return &VerifyCodeResult{
		Message:  "Phone number verified",
		Stage:    stage,
		Verified: true,
	}, nil
}

// IsVerified reports whether phone holds a verified, unexpired code
func (s *Service) IsVerified(ctx context.Context, rawPhone string) (bool, error) {
	phone, err := valueobject.NewPhone(rawPhone)
	if err != nil {
		return false, err
	}
	v, err := s.store.Get(ctx, phone.String())
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load verification: %w", err)
	}
	return v.IsUsable(s.clock.Now()), nil
}

// Status is IsVerified shaped for the status endpoint
func (s *Service) Status(ctx context.Context, rawPhone string) (*StatusResult, error) {
	verified, err := s.IsVerified(ctx, rawPhone)
	if err != nil {
		return nil, err
	}
	phone, _ := valueobject.NewPhone(rawPhone)
	return &StatusResult{Phone: phone.String(), Verified: verified}, nil
}

// Consume removes the verification once an order has used it
func (s *Service) Consume(ctx context.Context, rawPhone string) error {
	phone, err := valueobject.NewPhone(rawPhone)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, phone.String()); err != nil {
		return fmt.Errorf("failed to consume verification: %w", err)
	}
	return nil
}

// PurgeExpired deletes verifications past their expiry
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.PurgeExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge verifications: %w", err)
	}
	if n > 0 {
		s.logger.Info("Expired verifications purged", zap.Int64("count", n))
	}
	return n, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeVerified
	case errors.Is(err, verification.ErrCodeExpired):
		return OutcomeExpired
	case errors.Is(err, verification.ErrTooManyAttempts):
		return OutcomeTooManyAttempts
	case errors.Is(err, verification.ErrCodeAlreadyUsed):
		return OutcomeAlreadyUsed
	}
	return OutcomeInvalid
}
