package broadcast

import (
	"context"
	"sync"
)

// DefaultBufferSize is the per-subscriber channel capacity used when none is given.
const DefaultBufferSize = 64

// Option configures a MemoryBroadcaster.
type Option func(*options)

type options struct {
	bufferSize int
	onDrop     func(subscriberID string)
}

// WithBufferSize sets the per-subscriber channel capacity. Values below 1 are raised to 1.
func WithBufferSize(size int) Option {
	return func(o *options) {
		o.bufferSize = max(size, 1)
	}
}

// WithDropHandler registers a callback invoked when a slow subscriber is
// evicted because its buffer was full.
func WithDropHandler(fn func(subscriberID string)) Option {
	return func(o *options) {
		o.onDrop = fn
	}
}

// MemoryBroadcaster evicts slow consumers rather than blocking the broadcast operation.
// All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	subscribers map[*subscriber[T]]struct{}
	opts        options
	closed      bool
	done        chan struct{}
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

// NewMemoryBroadcaster creates a new in-memory broadcaster.
func NewMemoryBroadcaster[T any](opts ...Option) *MemoryBroadcaster[T] {
	o := options{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}

	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		opts:        o,
		done:        make(chan struct{}),
	}
}

// Subscribe creates a subscriber that is cleaned up when ctx is cancelled.
// If the broadcaster is already closed, a closed subscriber is returned.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber[T](b.opts.bufferSize)
	if b.closed {
		_ = sub.Close()
		return sub
	}

	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			select {
			case <-ctx.Done():
				b.unsubscribe(sub)
			case <-b.done:
			}
		}()
	}

	return sub
}

// Broadcast queues msg for every subscriber. A subscriber whose buffer is
// full is evicted and its channel closed.
func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for sub := range b.subscribers {
		queued, evicted := sub.offer(msg)
		if queued {
			continue
		}
		if evicted && b.opts.onDrop != nil {
			b.opts.onDrop(sub.id)
		}
		// Eviction needs the write lock, which we cannot take under RLock
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			b.unsubscribe(sub)
		}()
	}

	return nil
}

// Len returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close shuts down the broadcaster and closes all subscribers.
// It is safe to call Close multiple times.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)

	for sub := range b.subscribers {
		_ = sub.Close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	b.cleanupWg.Wait()
	return nil
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	_ = sub.Close()
}
