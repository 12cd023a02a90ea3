package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// Handler reacts to one event. A returned error is reported, never propagated.
type Handler func(ctx context.Context, e Event) error

// ErrorHook observes handler failures, including recovered panics.
type ErrorHook func(ctx context.Context, e Event, err error)

type subscription struct {
	id      uint64
	handler Handler
}

// Publisher is the write side of the bus, as seen by services.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

var _ Publisher = (*Bus)(nil)

// Bus is an in-process publish/subscribe hub. Publish fans out to every handler
// of the event type concurrently and waits for all of them.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   uint64

	logger  *slog.Logger
	onError ErrorHook
}

// BusOption is a function that configures a Bus
type BusOption func(*Bus)

// WithLogger sets the logger handler failures are written to.
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		b.logger = logger
	}
}

// WithErrorHook registers a callback for handler failures.
func WithErrorHook(hook ErrorHook) BusOption {
	return func(b *Bus) {
		b.onError = hook
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		handlers: make(map[EventType][]subscription),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h for eventType and returns a function that removes it.
func (b *Bus) Subscribe(eventType EventType, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.handlers[eventType]
			for i, s := range subs {
				if s.id == id {
					b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to every current subscriber of its type and returns once all
// have finished. Handler errors and panics are logged and passed to the error hook.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[e.Type]))
	copy(subs, b.handlers[e.Type])
	b.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	p := pool.New()
	for _, s := range subs {
		p.Go(func() {
			if err := invoke(ctx, s.handler, e); err != nil {
				b.report(ctx, e, err)
			}
		})
	}
	p.Wait()
}

// SubscriberCount reports how many handlers listen to eventType.
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

func invoke(ctx context.Context, h Handler, e Event) (err error) {
	var pc panics.Catcher
	pc.Try(func() {
		err = h(ctx, e)
	})
	if r := pc.Recovered(); r != nil {
		return fmt.Errorf("event handler panicked: %w", r.AsError())
	}
	return err
}

func (b *Bus) report(ctx context.Context, e Event, err error) {
	b.logger.Error("Event handler failed",
		slog.String("event_type", string(e.Type)),
		slog.String("event_id", e.ID),
		slog.String("error", err.Error()))
	if b.onError != nil {
		b.onError(ctx, e, err)
	}
}
