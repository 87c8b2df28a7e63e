package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/redis/go-redis/v9"
)

const defaultVerificationPrefix = "sms:verification:"

// RedisVerificationStore keeps phone verifications in Redis.
// Keys expire together with the code, so PurgeExpired has nothing to do.
type RedisVerificationStore struct {
	client    redis.Cmdable
	keyPrefix string
	now       func() time.Time
}

// NewRedisVerificationStore creates a store on an existing client
func NewRedisVerificationStore(client redis.Cmdable, keyPrefix string) *RedisVerificationStore {
	if keyPrefix == "" {
		keyPrefix = defaultVerificationPrefix
	}
	return &RedisVerificationStore{
		client:    client,
		keyPrefix: keyPrefix,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type redisVerification struct {
	Phone      string     `json:"phone"`
	CodeHash   string     `json:"code_hash"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Attempts   int        `json:"attempts"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Save stores v with a TTL matching its expiry
func (s *RedisVerificationStore) Save(ctx context.Context, v *verification.PhoneVerification) error {
	ttl := v.TTL(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, v.Phone)
	}
	payload, err := json.Marshal(redisVerification(*v))
	if err != nil {
		return fmt.Errorf("failed to encode verification: %w", err)
	}
	if err := s.client.Set(ctx, s.key(v.Phone), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification: %w", err)
	}
	return nil
}

// Get returns the verification for phone
func (s *RedisVerificationStore) Get(ctx context.Context, phone string) (*verification.PhoneVerification, error) {
	raw, err := s.client.Get(ctx, s.key(phone)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load verification: %w", err)
	}
	var rv redisVerification
	if err := json.Unmarshal(raw, &rv); err != nil {
		return nil, fmt.Errorf("failed to decode verification: %w", err)
	}
	v := verification.PhoneVerification(rv)
	return &v, nil
}

// Delete removes the verification for phone
func (s *RedisVerificationStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, s.key(phone)).Err(); err != nil {
		return fmt.Errorf("failed to delete verification: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis expires keys on its own
func (s *RedisVerificationStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (s *RedisVerificationStore) key(phone string) string {
	return s.keyPrefix + phone
}

var _ verification.Store = (*RedisVerificationStore)(nil)
