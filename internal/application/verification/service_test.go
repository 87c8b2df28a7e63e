package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore keeps verifications in a map
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]verification.PhoneVerification
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]verification.PhoneVerification{}}
}

func (f *fakeStore) Save(_ context.Context, v *verification.PhoneVerification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[v.Phone] = *v
	return nil
}

func (f *fakeStore) Get(_ context.Context, phone string) (*verification.PhoneVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.entries[phone]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &v, nil
}

func (f *fakeStore) Delete(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, phone)
	return nil
}

func (f *fakeStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, v := range f.entries {
		if v.IsExpired(now) {
			delete(f.entries, k)
			n++
		}
	}
	return n, nil
}

// MockSMSSender is a mock implementation of verification.SMSSender
type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) Send(ctx context.Context, phone, body string) error {
	return m.Called(ctx, phone, body).Error(0)
}

func (m *MockSMSSender) DevMode() bool {
	return m.Called().Bool(0)
}

type fixedCode string

func (c fixedCode) Generate(int) (string, error) { return string(c), nil }

type mutableClock struct{ now time.Time }

func (c *mutableClock) Now() time.Time { return c.now }

const phone = "+48123456789"

func setup(t *testing.T) (*Service, *fakeStore, *MockSMSSender, *mutableClock) {
	t.Helper()
	store := newFakeStore()
	sender := new(MockSMSSender)
	clock := &mutableClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	svc := NewService(store, sender, Config{
		CodeTTL:        10 * time.Minute,
		ResendCooldown: time.Minute,
		MaxAttempts:    3,
	}, zap.NewNop(), WithClock(clock), WithCodeGenerator(fixedCode("123456")))
	return svc, store, sender, clock
}

func TestService_SendCode(t *testing.T) {
	svc, store, sender, _ := setup(t)
	sender.On("Send", mock.Anything, phone, "Your Złota Rączka verification code: 123456. Valid for 10 min.").Return(nil)
	sender.On("DevMode").Return(false)

	result, err := svc.SendCode(context.Background(), "+48 123 456 789")
	require.NoError(t, err)

	assert.Equal(t, booking.FormStageVerification, result.Stage)
	assert.Equal(t, 600, result.ExpiresIn)
	assert.Equal(t, "Verification code sent", result.Message)
	assert.NotContains(t, result.Message, "123456")

	stored, err := store.Get(context.Background(), phone)
	require.NoError(t, err)
	assert.Equal(t, verification.HashCode("123456"), stored.CodeHash)
	sender.AssertExpectations(t)
}

func TestService_SendCode_DevModeShowsCode(t *testing.T) {
	svc, _, sender, _ := setup(t)
	sender.On("Send", mock.Anything, phone, mock.Anything).Return(nil)
	sender.On("DevMode").Return(true)

	result, err := svc.SendCode(context.Background(), phone)
	require.NoError(t, err)
	assert.True(t, result.DevMode)
	assert.Equal(t, "Code: 123456 (test mode)", result.Message)
}

func TestService_SendCode_Cooldown(t *testing.T) {
	svc, _, sender, clock := setup(t)
	sender.On("Send", mock.Anything, phone, mock.Anything).Return(nil)
	sender.On("DevMode").Return(false)

	_, err := svc.SendCode(context.Background(), phone)
	require.NoError(t, err)

	clock.now = clock.now.Add(30 * time.Second)
	_, err = svc.SendCode(context.Background(), phone)
	assert.ErrorIs(t, err, verification.ErrResendTooSoon)

	clock.now = clock.now.Add(31 * time.Second)
	_, err = svc.SendCode(context.Background(), phone)
	assert.NoError(t, err)
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestService_SendCode_SenderFailureDropsCode(t *testing.T) {
	svc, store, sender, _ := setup(t)
	sender.On("Send", mock.Anything, phone, mock.Anything).Return(errors.New("gateway down"))

	_, err := svc.SendCode(context.Background(), phone)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSMSFailed)

	_, err = store.Get(context.Background(), phone)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_SendCode_InvalidPhone(t *testing.T) {
	svc, _, sender, _ := setup(t)
	_, err := svc.SendCode(context.Background(), "abc")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PHONE", domainErr.Code)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SendCode_StoreError(t *testing.T) {
	svc, store, _, _ := setup(t)
	store.getErr = errors.New("redis unavailable")
	_, err := svc.SendCode(context.Background(), phone)
	assert.ErrorContains(t, err, "redis unavailable")
}

func TestService_VerifyCode(t *testing.T) {
	svc, store, _, clock := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, verification.NewPhoneVerification(phone, "123456", 10*time.Minute, clock.now)))

	verified, err := svc.IsVerified(ctx, phone)
	require.NoError(t, err)
	assert.False(t, verified)

	result, err := svc.VerifyCode(ctx, phone, "123456")
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, booking.FormStageForm, result.Stage)

	status, err := svc.Status(ctx, "+48 123-456-789")
	require.NoError(t, err)
	assert.Equal(t, phone, status.Phone)
	assert.True(t, status.Verified)

	_, err = svc.VerifyCode(ctx, phone, "123456")
	assert.ErrorIs(t, err, verification.ErrCodeAlreadyUsed)

	require.NoError(t, svc.Consume(ctx, phone))
	verified, err = svc.IsVerified(ctx, phone)
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestService_VerifyCode_WrongCodeCountsAttempts(t *testing.T) {
	svc, store, _, clock := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, verification.NewPhoneVerification(phone, "123456", 10*time.Minute, clock.now)))

	for i := 0; i < 3; i++ {
		_, err := svc.VerifyCode(ctx, phone, "000000")
		assert.ErrorIs(t, err, verification.ErrInvalidCode)
	}
	stored, err := store.Get(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Attempts)

	_, err = svc.VerifyCode(ctx, phone, "123456")
	assert.ErrorIs(t, err, verification.ErrTooManyAttempts)
}

func TestService_VerifyCode_Expired(t *testing.T) {
	svc, store, _, clock := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, verification.NewPhoneVerification(phone, "123456", 10*time.Minute, clock.now)))

	clock.now = clock.now.Add(11 * time.Minute)
	_, err := svc.VerifyCode(ctx, phone, "123456")
	assert.ErrorIs(t, err, verification.ErrCodeExpired)
}

func TestService_VerifyCode_UnknownPhoneAndBadFormat(t *testing.T) {
	svc, _, _, _ := setup(t)
	_, err := svc.VerifyCode(context.Background(), phone, "123456")
	assert.ErrorIs(t, err, verification.ErrInvalidCode)

	_, err = svc.VerifyCode(context.Background(), phone, "12ab")
	assert.ErrorIs(t, err, verification.ErrInvalidCodeFormat)
}

func TestService_PurgeExpired(t *testing.T) {
	svc, store, _, clock := setup(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, verification.NewPhoneVerification(phone, "1", time.Minute, clock.now)))
	require.NoError(t, store.Save(ctx, verification.NewPhoneVerification("+48500600700", "2", time.Hour, clock.now)))

	clock.now = clock.now.Add(2 * time.Minute)
	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeVerified, outcomeOf(nil))
	assert.Equal(t, OutcomeExpired, outcomeOf(verification.ErrCodeExpired))
	assert.Equal(t, OutcomeTooManyAttempts, outcomeOf(verification.ErrTooManyAttempts))
	assert.Equal(t, OutcomeAlreadyUsed, outcomeOf(verification.ErrCodeAlreadyUsed))
	assert.Equal(t, OutcomeInvalid, outcomeOf(verification.ErrInvalidCode))
}
