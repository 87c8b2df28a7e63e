package event

import (
	"context"
	"sync"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"go.uber.org/zap"
)

// Config tunes the in-memory bus
type Config struct {
	// Workers is the number of goroutines delivering events once started
	Workers int
	// QueueSize bounds the number of pending deliveries
	QueueSize int
	// HandlerTimeout bounds a single handler call
	HandlerTimeout time.Duration
}

// DefaultConfig returns settings suited to a single small instance
func DefaultConfig() Config {
	return Config{Workers: 2, QueueSize: 256, HandlerTimeout: time.Minute}
}

type delivery struct {
	handler shared.EventHandler
	event   shared.DomainEvent
}

// InMemoryEventBus delivers domain events to registered handlers.
// Before Start, or after Stop, events are delivered synchronously.
// While running, deliveries are queued and handled by worker goroutines
// so that slow handlers (Telegram uploads) never hold up a request.
// A full queue falls back to synchronous delivery.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	cfg      Config

	mu      sync.RWMutex
	running bool
	queue   chan delivery
	wg      sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, cfg Config) *InMemoryEventBus {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
		cfg:      cfg,
	}
}

// Publish hands events to their handlers. Handler errors are logged, never returned.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ev := range events {
		for _, h := range b.registry.GetHandlers(ev.EventType()) {
			d := delivery{handler: h, event: ev}
			if b.running {
				select {
				case b.queue <- d:
					continue
				default:
					b.logger.Warn("event queue full, delivering synchronously",
						zap.String("event_type", ev.EventType()))
				}
			}
			b.dispatch(context.WithoutCancel(ctx), d)
		}
	}
	return nil
}

// Subscribe registers a handler; with no explicit types the handler's own are used
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the delivery workers
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return nil
	}

	b.queue = make(chan delivery, b.cfg.QueueSize)
	b.running = true
	for i := 0; i < b.cfg.Workers; i++ {
		b.wg.Add(1)
		go b.worker(b.queue)
	}
	b.logger.Info("event bus started", zap.Int("workers", b.cfg.Workers))
	return nil
}

// Stop drains queued deliveries and waits for the workers, or for ctx to end
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = false
	close(b.queue)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) worker(queue <-chan delivery) {
	defer b.wg.Done()
	for d := range queue {
		b.dispatch(context.Background(), d)
	}
}

// dispatch calls a handler, turning panics and errors into log entries
func (b *InMemoryEventBus) dispatch(ctx context.Context, d delivery) {
	if b.cfg.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.HandlerTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", d.event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := d.handler.Handle(ctx, d.event); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", d.event.EventType()),
			zap.String("event_id", d.event.EventID().String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
