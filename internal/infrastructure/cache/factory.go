package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// VerificationStoreFactory creates Redis or in-memory verification stores
type VerificationStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	cleanupInterval       time.Duration
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*VerificationStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *VerificationStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *VerificationStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithCleanupInterval sets how often the in-memory store drops expired codes
func WithCleanupInterval(d time.Duration) FactoryOption {
	return func(f *VerificationStoreFactory) {
		f.cleanupInterval = d
	}
}

// NewVerificationStoreFactory creates a new factory
func NewVerificationStoreFactory(cfg config.RedisConfig, opts ...FactoryOption) *VerificationStoreFactory {
	f := &VerificationStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		cleanupInterval:       5 * time.Minute,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateInMemoryStore creates an in-memory store. Codes are lost on restart
// and not shared between instances.
func (f *VerificationStoreFactory) CreateInMemoryStore() *InMemoryVerificationStore {
	return NewInMemoryVerificationStore(f.cleanupInterval)
}

// CreateStore returns a Redis store when Redis answers, otherwise an in-memory
// store if fallback is allowed. The returned client is nil for the memory store.
func (f *VerificationStoreFactory) CreateStore(ctx context.Context) (verification.Store, *redis.Client, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis verification store", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisVerificationStore(client, ""), client, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("redis required for verification store but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory verification store. "+
		"Codes will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil, nil
}
