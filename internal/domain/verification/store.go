package verification

import (
	"context"
	"time"
)

// Store persists phone verifications keyed by normalized phone number.
// Implementations exist for the database, Redis and process memory.
type Store interface {
	// Save creates or replaces the verification for v.Phone
	Save(ctx context.Context, v *PhoneVerification) error

	// Get returns the verification for phone, or shared.ErrNotFound
	Get(ctx context.Context, phone string) (*PhoneVerification, error)

	// Delete removes the verification for phone; missing entries are not an error
	Delete(ctx context.Context, phone string) error

	// PurgeExpired removes entries that expired before now and returns how many were removed
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// SMSSender delivers a text message to a phone number
type SMSSender interface {
	// Send delivers body to phone
	Send(ctx context.Context, phone, body string) error

	// DevMode reports whether messages are only logged instead of delivered
	DevMode() bool
}
