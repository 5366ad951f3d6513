package eventbus

import (
	"context"
	"sync"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// Handler consumes a published payload.
type Handler func(ctx context.Context, routingKey string, payload []byte)

// InProcessBus is a Publisher that dispatches synchronously to in-process
// subscribers. Used in local mode, where no broker is configured.
type InProcessBus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewInProcessBus creates an in-process event bus.
func NewInProcessBus() *InProcessBus {
	return &InProcessBus{}
}

// Subscribe registers a handler for all published events.
func (b *InProcessBus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish dispatches the payload to every subscriber.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, routingKey, payload)
	}
	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error { return nil }
