package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink delivers events somewhere durable: a broker topic, a test buffer.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// Publisher fans events out to a sink. A nil *Publisher is a valid no-op so
// services can take it as an optional dependency.
type Publisher struct {
	sink   Sink
	events chan Event
	wg     sync.WaitGroup
	logger *slog.Logger
	async  bool
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async delivery with the specified buffer size.
// Events are queued and delivered in a background goroutine; a full buffer
// drops the event rather than blocking the hot path.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
			p.async = true
		}
	}
}

// WithLogger sets a logger for async error reporting.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(sink Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{sink: sink}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.deliverEvents()
	}
	return p
}

func (p *Publisher) deliverEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.sink.Deliver(context.Background(), event); err != nil {
			if p.logger != nil {
				p.logger.Warn("event delivery failed",
					"error", err,
					"action", event.Action,
					"user_id", event.UserID.String(),
				)
			}
		}
	}
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

// Emit publishes one event. Delivery failures are reported to the logger,
// never to the caller: event fan-out must not fail domain operations.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.async {
		select {
		case p.events <- event:
		default:
			if p.logger != nil {
				p.logger.Warn("event buffer full, event dropped",
					"action", event.Action,
					"user_id", event.UserID.String(),
				)
			}
		}
		return
	}
	if err := p.sink.Deliver(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event delivery failed",
			"error", err,
			"action", event.Action,
			"user_id", event.UserID.String(),
		)
	}
}
