package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingExecutor struct {
	mu       sync.Mutex
	executed []JobType
	failures int32 // number of calls to fail before succeeding
	calls    atomic.Int32
	done     chan struct{}
	panics   bool
}

func (e *recordingExecutor) Execute(_ context.Context, job *Job) error {
	n := e.calls.Add(1)
	if e.panics {
		panic("executor exploded")
	}
	if n <= e.failures {
		return errors.New("transient")
	}
	e.mu.Lock()
	e.executed = append(e.executed, job.Type)
	e.mu.Unlock()
	if e.done != nil {
		e.done <- struct{}{}
	}
	return nil
}

func testConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     4,
		JobTimeout:    time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job")
	}
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(JobTypeCalendarHorizon, 2)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.True(t, job.ShouldRetry())

	job.RetryCount = 2
	assert.False(t, job.ShouldRetry())

	job.Start()
	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Empty(t, job.Error)
}

func TestJob_RetryDelayDoubles(t *testing.T) {
	job := NewJob(JobTypeVerificationPurge, 3)
	assert.Equal(t, 30*time.Second, job.RetryDelay(30*time.Second))
	job.RetryCount = 1
	assert.Equal(t, time.Minute, job.RetryDelay(30*time.Second))
	job.RetryCount = 2
	assert.Equal(t, 2*time.Minute, job.RetryDelay(30*time.Second))
}

func TestScheduler_SubmitRequiresRunning(t *testing.T) {
	s := NewScheduler(testConfig(), &recordingExecutor{}, zap.NewNop())
	_, err := s.Submit(JobTypeCalendarHorizon)
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_ExecutesJobs(t *testing.T) {
	exec := &recordingExecutor{done: make(chan struct{}, 2)}
	s := NewScheduler(testConfig(), exec, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	_, err := s.Submit(JobTypeCalendarHorizon)
	require.NoError(t, err)
	_, err = s.Submit(JobTypeVerificationPurge)
	require.NoError(t, err)

	waitFor(t, exec.done)
	waitFor(t, exec.done)

	exec.mu.Lock()
	defer exec.mu.Unlock()
	assert.ElementsMatch(t, []JobType{JobTypeCalendarHorizon, JobTypeVerificationPurge}, exec.executed)
}

func TestScheduler_RetriesFailedJobs(t *testing.T) {
	exec := &recordingExecutor{failures: 2, done: make(chan struct{}, 1)}
	s := NewScheduler(testConfig(), exec, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	job, err := s.Submit(JobTypeCalendarHorizon)
	require.NoError(t, err)

	waitFor(t, exec.done)
	assert.Equal(t, int32(3), exec.calls.Load())
	assert.Equal(t, 2, job.RetryCount)
}

func TestScheduler_RecoversFromPanics(t *testing.T) {
	exec := &recordingExecutor{panics: true}
	cfg := testConfig()
	cfg.RetryAttempts = 0
	s := NewScheduler(cfg, exec, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))

	job, err := s.Submit(JobTypeVerificationPurge)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return exec.calls.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Contains(t, job.Error, "executor exploded")
}

func TestScheduler_StopCancelsPendingRetries(t *testing.T) {
	exec := &recordingExecutor{failures: 100}
	cfg := testConfig()
	cfg.RetryDelay = time.Hour
	s := NewScheduler(cfg, exec, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))

	_, err := s.Submit(JobTypeCalendarHorizon)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return exec.calls.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, int32(1), exec.calls.Load())
}

func TestRunOnce(t *testing.T) {
	exec := &recordingExecutor{}
	require.NoError(t, RunOnce(context.Background(), exec, JobTypeCalendarHorizon, time.Second))
	assert.Equal(t, []JobType{JobTypeCalendarHorizon}, exec.executed)

	failing := &recordingExecutor{failures: 1}
	assert.Error(t, RunOnce(context.Background(), failing, JobTypeCalendarHorizon, 0))
}
