package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	audit "contactbook/pkg/platform/audit"
)

// ErrBufferFull is returned in async mode when the event could not be queued.
var ErrBufferFull = errors.New("audit buffer full")

// Publisher fans audit events into a Store, either inline or through a bounded
// buffer drained by one background goroutine.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}
	once   sync.Once
}

type queued struct {
	ctx   context.Context
	event audit.Event
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan queued, size)
		}
	}
}

// WithLogger sets the logger used for failures in async mode.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		go p.drain()
	} else {
		close(p.done)
	}
	return p
}

// Emit records event, stamping it with the current time when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.queue == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- queued{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// Close stops accepting queued events and blocks until the buffer is drained.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.queue == nil {
			return
		}
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
	})
	<-p.done
}

func (p *Publisher) drain() {
	defer close(p.done)
	for q := range p.queue {
		if err := p.store.Append(q.ctx, q.event); err != nil {
			p.logger.ErrorContext(q.ctx, "failed to append audit event",
				"action", q.event.Action,
				"subject", q.event.Subject,
				"error", err,
			)
		}
	}
}
