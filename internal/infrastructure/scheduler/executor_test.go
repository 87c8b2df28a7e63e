package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockCalendar struct{ mock.Mock }

func (m *mockCalendar) EnsureHorizon(ctx context.Context, days int, skipWeekends bool) (int, error) {
	args := m.Called(ctx, days, skipWeekends)
	return args.Int(0), args.Error(1)
}

func (m *mockCalendar) PurgePast(ctx context.Context, keepDays int) (int64, error) {
	args := m.Called(ctx, keepDays)
	return args.Get(0).(int64), args.Error(1)
}

type mockPurger struct{ mock.Mock }

func (m *mockPurger) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestMaintenanceExecutor_CalendarHorizon(t *testing.T) {
	cal := new(mockCalendar)
	cal.On("EnsureHorizon", mock.Anything, 60, true).Return(12, nil)
	cal.On("PurgePast", mock.Anything, 30).Return(int64(4), nil)

	exec := NewMaintenanceExecutor(cal, new(mockPurger), HorizonConfig{Days: 60, SkipWeekends: true, KeepPastDays: 30}, zap.NewNop())

	assert.NoError(t, exec.Execute(context.Background(), NewJob(JobTypeCalendarHorizon, 0)))
	cal.AssertExpectations(t)
}

func TestMaintenanceExecutor_CalendarHorizonNegativeKeepSkipsPurge(t *testing.T) {
	cal := new(mockCalendar)
	cal.On("EnsureHorizon", mock.Anything, 10, false).Return(0, nil)

	exec := NewMaintenanceExecutor(cal, new(mockPurger), HorizonConfig{Days: 10, KeepPastDays: -1}, zap.NewNop())

	assert.NoError(t, exec.Execute(context.Background(), NewJob(JobTypeCalendarHorizon, 0)))
	cal.AssertNotCalled(t, "PurgePast", mock.Anything, mock.Anything)
}

func TestMaintenanceExecutor_Errors(t *testing.T) {
	cal := new(mockCalendar)
	cal.On("EnsureHorizon", mock.Anything, mock.Anything, mock.Anything).Return(0, errors.New("db down"))
	purger := new(mockPurger)
	purger.On("PurgeExpired", mock.Anything).Return(int64(0), errors.New("redis down"))

	exec := NewMaintenanceExecutor(cal, purger, HorizonConfig{Days: 60}, zap.NewNop())

	err := exec.Execute(context.Background(), NewJob(JobTypeCalendarHorizon, 0))
	assert.ErrorContains(t, err, "failed to extend calendar")

	err = exec.Execute(context.Background(), NewJob(JobTypeVerificationPurge, 0))
	assert.ErrorContains(t, err, "failed to purge verifications")

	err = exec.Execute(context.Background(), NewJob("reports", 0))
	assert.ErrorIs(t, err, ErrUnknownJobType)
}

func TestMaintenanceExecutor_VerificationPurge(t *testing.T) {
	purger := new(mockPurger)
	purger.On("PurgeExpired", mock.Anything).Return(int64(3), nil)

	exec := NewMaintenanceExecutor(new(mockCalendar), purger, HorizonConfig{}, zap.NewNop())

	assert.NoError(t, exec.Execute(context.Background(), NewJob(JobTypeVerificationPurge, 0)))
	purger.AssertExpectations(t)
}
