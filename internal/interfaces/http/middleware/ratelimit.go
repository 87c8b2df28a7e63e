package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Quota is the outcome of taking one request from a key's window
type Quota struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetIn is the time until the window of the key starts over
	ResetIn time.Duration
}

// Limiter counts requests per key in fixed windows
type Limiter interface {
	Take(ctx context.Context, key string) (Quota, error)
}

// RateLimiter is a fixed window Limiter kept in process memory
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	start time.Time
	used  int
}

// NewRateLimiter creates a limiter allowing limit requests per period.
// Stop must be called to release the eviction goroutine.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.evictLoop()
	return rl
}

// Stop terminates the eviction goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Take counts one request for key
func (rl *RateLimiter) Take(_ context.Context, key string) (Quota, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}

	q := Quota{Limit: rl.limit, ResetIn: rl.period - now.Sub(w.start)}
	if w.used < rl.limit {
		w.used++
		q.Allowed = true
	}
	q.Remaining = rl.limit - w.used
	return q, nil
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evict()
		}
	}
}

func (rl *RateLimiter) evict() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.period {
			delete(rl.windows, key)
		}
	}
}

// RateLimit limits requests per client IP
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByKey limits requests per key and answers 429 with Retry-After
// once a key has used up its window. Requests pass when the limiter fails.
func RateLimitByKey(limiter Limiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := limiter.Take(c.Request.Context(), keyFunc(c))
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("Rate limiter unavailable, request let through", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(q.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(q.Remaining, 0)))
		if !q.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(q.ResetIn.Seconds()))))
			dto.Abort(c, http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}
