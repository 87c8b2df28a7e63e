package cache

import (
	"context"
	"sync"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
)

// InMemoryVerificationStore keeps phone verifications in process memory.
// Suitable for a single instance and for tests.
type InMemoryVerificationStore struct {
	mu        sync.RWMutex
	entries   map[string]verification.PhoneVerification
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryVerificationStore creates the store and starts a goroutine that
// drops expired entries every cleanupInterval. A zero interval disables it.
func NewInMemoryVerificationStore(cleanupInterval time.Duration) *InMemoryVerificationStore {
	return newInMemoryVerificationStore(cleanupInterval, func() time.Time { return time.Now().UTC() })
}

func newInMemoryVerificationStore(cleanupInterval time.Duration, now func() time.Time) *InMemoryVerificationStore {
	s := &InMemoryVerificationStore{
		entries:  make(map[string]verification.PhoneVerification),
		now:      now,
		stopChan: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		s.wg.Add(1)
		go s.cleanupLoop(cleanupInterval)
	}
	return s
}

// Save creates or replaces the verification for v.Phone
func (s *InMemoryVerificationStore) Save(ctx context.Context, v *verification.PhoneVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[v.Phone] = copyVerification(v)
	return nil
}

// Get returns a copy of the stored verification
func (s *InMemoryVerificationStore) Get(ctx context.Context, phone string) (*verification.PhoneVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[phone]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := copyVerification(&v)
	return &out, nil
}

// Delete removes the verification for phone
func (s *InMemoryVerificationStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, phone)
	return nil
}

// PurgeExpired removes entries that expired before now
func (s *InMemoryVerificationStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for phone, v := range s.entries {
		if v.IsExpired(now) {
			delete(s.entries, phone)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries
func (s *InMemoryVerificationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryVerificationStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryVerificationStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			_, _ = s.PurgeExpired(context.Background(), s.now())
		}
	}
}

func copyVerification(v *verification.PhoneVerification) verification.PhoneVerification {
	out := *v
	if v.VerifiedAt != nil {
		at := *v.VerifiedAt
		out.VerifiedAt = &at
	}
	return out
}

var _ verification.Store = (*InMemoryVerificationStore)(nil)
