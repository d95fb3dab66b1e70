package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// ID returns a unique subscriber identifier, useful for logging.
	ID() string

	// Receive returns a channel for receiving broadcast messages.
	// The channel is closed once the subscriber is closed.
	Receive(ctx context.Context) <-chan Message[T]

	// Close releases the subscription. It is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers.
// Implementations must never block the sender on a slow consumer.
type Broadcaster[T any] interface {
	// Subscribe creates a subscriber receiving every message broadcast after
	// the call. The subscription ends when ctx is cancelled.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast sends a message to all active subscribers.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close shuts down the broadcaster and closes all subscribers.
	Close() error
}

type subscriber[T any] struct {
	id     string
	ch     chan Message[T]
	closed bool
	mu     sync.Mutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		id: uuid.NewString(),
		ch: make(chan Message[T], bufferSize),
	}
}

func (s *subscriber[T]) ID() string {
	return s.id
}

func (s *subscriber[T]) Receive(_ context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// offer never blocks. A full buffer closes the subscriber so the consumer
// observes the end of its stream instead of silently missing messages.
func (s *subscriber[T]) offer(msg Message[T]) (queued, evicted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, false
	}

	select {
	case s.ch <- msg:
		return true, false
	default:
		close(s.ch)
		s.closed = true
		return false, true
	}
}
