package toast

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
)

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock, typically with clockwork.NewFakeClock in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithLogger sets the logger for the Manager.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithObserver registers a synchronous lifecycle observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// WithStreamBuffer sets how many events a stream subscriber may lag behind
// before it is evicted.
func WithStreamBuffer(size int) Option {
	return func(m *Manager) {
		if size > 0 {
			m.streamBuffer = size
		}
	}
}
