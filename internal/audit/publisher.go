package audit

import (
	"context"
	"log/slog"
	"time"
)

// Store persists audit events. Append-only; nothing in the service updates or
// deletes an event once written.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actorID int64) ([]Event, error)
}

// Publisher captures structured audit events. With a buffer it hands events to
// a background worker so the request path never blocks on the audit sink; a
// full buffer drops the event with a log line rather than failing the request.
type Publisher struct {
	store  Store
	logger *slog.Logger
	inbox  chan Event
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous persistence through a buffered channel.
// Call Run on a background goroutine when using this.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan Event, size)
		}
	}
}

func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records an event. In async mode this never returns an error for a full
// buffer; audit loss is logged, not surfaced to voters mid-request.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"actor_id", event.ActorID,
		)
		return nil
	}
}

// Run drains the async buffer until ctx is cancelled. Persist failures are
// logged and skipped so one bad event cannot wedge the worker.
func (p *Publisher) Run(ctx context.Context) error {
	if p.inbox == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-p.inbox:
			if err := p.store.Append(context.WithoutCancel(ctx), event); err != nil {
				p.logger.Error("append audit event", "error", err, "action", event.Action)
			}
		}
	}
}

// ListByActor returns the trail for one actor, oldest first.
func (p *Publisher) ListByActor(ctx context.Context, actorID int64) ([]Event, error) {
	return p.store.ListByActor(ctx, actorID)
}
