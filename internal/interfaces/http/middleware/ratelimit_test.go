package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// newTestLimiter returns a limiter on a controllable clock
func newTestLimiter(t *testing.T, limit int, period time.Duration) (*RateLimiter, *time.Time) {
	t.Helper()
	now := time.Date(2026, 5, 6, 8, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(limit, period)
	limiter.now = func() time.Time { return now }
	t.Cleanup(limiter.Stop)
	return limiter, &now
}

func take(t *testing.T, l Limiter, key string) Quota {
	t.Helper()
	q, err := l.Take(context.Background(), key)
	require.NoError(t, err)
	return q
}

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 3, time.Minute)

		for i := 0; i < 3; i++ {
			q := take(t, limiter, "client")
			assert.True(t, q.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, 2-i, q.Remaining)
		}
		q := take(t, limiter, "client")
		assert.False(t, q.Allowed)
		assert.Zero(t, q.Remaining)
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, time.Minute)

		assert.True(t, take(t, limiter, "clientA").Allowed)
		assert.False(t, take(t, limiter, "clientA").Allowed)
		assert.True(t, take(t, limiter, "clientB").Allowed)
	})

	t.Run("reset time counts down within the window", func(t *testing.T) {
		limiter, now := newTestLimiter(t, 1, time.Minute)

		assert.Equal(t, time.Minute, take(t, limiter, "client").ResetIn)
		*now = now.Add(40 * time.Second)
		assert.Equal(t, 20*time.Second, take(t, limiter, "client").ResetIn)
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter, now := newTestLimiter(t, 2, time.Minute)

		take(t, limiter, "client")
		take(t, limiter, "client")
		assert.False(t, take(t, limiter, "client").Allowed)

		*now = now.Add(time.Minute)
		q := take(t, limiter, "client")
		assert.True(t, q.Allowed)
		assert.Equal(t, 1, q.Remaining)
	})

	t.Run("evicts expired windows", func(t *testing.T) {
		limiter, now := newTestLimiter(t, 2, time.Minute)
		take(t, limiter, "client")

		*now = now.Add(3 * time.Minute)
		limiter.evict()

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.Empty(t, limiter.windows)
	})

	t.Run("concurrent access", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 50, time.Minute)

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				q, _ := limiter.Take(context.Background(), "shared")
				if q.Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, allowed)
	})
}

func TestRateLimiter_StopReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	limiter := NewRateLimiter(1, time.Millisecond)
	limiter.Stop()
	limiter.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter, now := newTestLimiter(t, 2, time.Minute)
	r := newEngine(RequestID(), RateLimit(limiter))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	*now = now.Add(15500 * time.Millisecond)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "45", w.Header().Get("Retry-After"))

	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_RATE_LIMITED", resp.Error.Code)
}

func TestRateLimitByKey(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	r := newEngine(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Phone")
	}))

	send := func(phone string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Phone", phone)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("+48111"))
	assert.Equal(t, http.StatusTooManyRequests, send("+48111"))
	assert.Equal(t, http.StatusOK, send("+48222"))
}

type failingLimiter struct{}

func (failingLimiter) Take(context.Context, string) (Quota, error) {
	return Quota{}, errors.New("connection refused")
}

func TestRateLimit_LimiterFailureLetsRequestsThrough(t *testing.T) {
	r := newEngine(RateLimit(failingLimiter{}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
