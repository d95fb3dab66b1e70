package toast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/dmitrymomot/toastkit/pkg/broadcast"
	"github.com/dmitrymomot/toastkit/pkg/logger"
)

// Lifecycle timings.
const (
	// EnterDelay separates inserting the element from starting its enter
	// transition, so the browser paints the initial state first.
	EnterDelay = 100 * time.Millisecond
	// DwellTime is measured from insertion to the start of the exit.
	DwellTime = 4000 * time.Millisecond
	// ExitDuration matches the CSS transition length.
	ExitDuration = 300 * time.Millisecond
)

// Manager owns the toast container and drives every toast through its
// lifecycle. All methods are safe for concurrent use.
type Manager struct {
	clock        clockwork.Clock
	logger       *slog.Logger
	observers    []Observer
	streamBuffer int
	stream       *broadcast.MemoryBroadcaster[Event]

	mu        sync.Mutex
	container *container
	closed    bool
}

// NewManager creates a Manager. The container is created lazily by the
// first Notify call.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		clock:        clockwork.NewRealClock(),
		logger:       slog.Default(),
		streamBuffer: broadcast.DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(logger.Component("toast"))
	m.stream = broadcast.NewMemoryBroadcaster[Event](
		broadcast.WithBufferSize(m.streamBuffer),
		broadcast.WithDropHandler(func(id string) {
			m.logger.Warn("toast stream subscriber evicted", logger.SubscriberID(id))
		}),
	)
	return m
}

// Notify appends a new toast to the container and schedules its lifecycle.
// Severity defaults to success; unknown severities become info. Notify never blocks and never fails; after
// Close it returns a toast that is already removed.
func (m *Manager) Notify(ctx context.Context, message string, severity ...Severity) Toast {
	sev := DefaultSeverity
	if len(severity) > 0 && severity[0] != "" {
		sev = severity[0].Normalize()
	}

	e := &entry{
		id:       uuid.NewString(),
		message:  message,
		severity: sev,
		fsm:      lifecycle.Start(PhaseAppearing),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "toast dropped, manager closed", logger.Severity(sev))
		return Toast{ID: e.id, Message: message, Severity: sev, Phase: PhaseRemoved}
	}

	c := m.ensureContainer(ctx)
	c.push(e)

	id := e.id
	e.enter = m.clock.AfterFunc(EnterDelay, func() { m.advance(context.Background(), id, triggerEnter) })
	e.dwell = m.clock.AfterFunc(DwellTime, func() { m.advance(context.Background(), id, triggerDwell) })

	t := e.snapshot()
	m.logger.LogAttrs(ctx, slog.LevelDebug, "toast appended",
		logger.ToastID(id),
		logger.Severity(sev),
	)
	m.emit(ctx, Event{Kind: EventAppended, Toast: t})
	return t
}

// Dismiss starts the exit of an appearing or visible toast, cancelling its
// pending timers. It reports false for unknown or already leaving toasts.
func (m *Manager) Dismiss(ctx context.Context, id string) bool {
	return m.advance(ctx, id, triggerDismiss)
}

// Get returns the current snapshot of a live toast.
func (m *Manager) Get(id string) (Toast, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.container == nil {
		return Toast{}, false
	}
	e, ok := m.container.get(id)
	if !ok {
		return Toast{}, false
	}
	return e.snapshot(), true
}

// Snapshot returns the live toasts in stacking order.
func (m *Manager) Snapshot() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.container == nil {
		return []Toast{}
	}
	return m.container.snapshot()
}

// Len returns the number of live toasts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.container == nil {
		return 0
	}
	return len(m.container.order)
}

// HasContainer reports whether the container has been created.
func (m *Manager) HasContainer() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.container != nil
}

// Subscribe streams lifecycle events to a consumer such as an SSE handler.
// The subscription ends when ctx is cancelled or the Manager is closed.
func (m *Manager) Subscribe(ctx context.Context) broadcast.Subscriber[Event] {
	return m.stream.Subscribe(ctx)
}

// Close stops every pending timer and ends all subscriptions. Live toasts
// are left where they are; the process is going away.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	if m.container != nil {
		for _, e := range m.container.all() {
			e.stopAll()
		}
	}
	m.mu.Unlock()

	return m.stream.Close()
}

// ensureContainer must be called with m.mu held.
func (m *Manager) ensureContainer(ctx context.Context) *container {
	if m.container != nil {
		return m.container
	}
	m.container = newContainer()
	m.logger.LogAttrs(ctx, slog.LevelDebug, "toast container created")
	m.emit(ctx, Event{Kind: EventContainerCreated})
	return m.container
}

// advance fires trig for the toast. Callbacks for transitions that are no
// longer available, including those for removed toasts, are no-ops.
func (m *Manager) advance(ctx context.Context, id string, trig trigger) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.container == nil {
		return false
	}
	e, ok := m.container.get(id)
	if !ok {
		return false
	}
	if err := e.fsm.Fire(withPhaseLogger(ctx, m.logger.With(logger.ToastID(id))), trig); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelDebug, "toast transition skipped",
			logger.ToastID(id),
			logger.Event(string(trig)),
			logger.Phase(e.fsm.Current()),
		)
		return false
	}

	switch e.fsm.Current() {
	case PhaseVisible:
		m.emit(ctx, Event{Kind: EventVisible, Toast: e.snapshot()})

	case PhaseDisappearing:
		e.stopPending()
		e.exit = m.clock.AfterFunc(ExitDuration, func() { m.advance(context.Background(), id, triggerExit) })
		dismissed := trig == triggerDismiss
		if dismissed {
			m.logger.LogAttrs(ctx, slog.LevelDebug, "toast dismissed", logger.ToastID(id))
		}
		m.emit(ctx, Event{Kind: EventDisappearing, Toast: e.snapshot(), Dismissed: dismissed})

	case PhaseRemoved:
		m.container.remove(id)
		m.logger.LogAttrs(ctx, slog.LevelDebug, "toast removed", logger.ToastID(id))
		m.emit(ctx, Event{Kind: EventRemoved, Toast: e.snapshot()})
	}

	return true
}

// emit must be called with m.mu held so per-toast event order matches
// transition order.
func (m *Manager) emit(ctx context.Context, ev Event) {
	for _, o := range m.observers {
		o.Observe(ctx, ev)
	}
	if err := m.stream.Broadcast(ctx, broadcast.Message[Event]{Data: ev}); err != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "toast event broadcast failed",
			logger.Event(string(ev.Kind)),
			logger.Error(err),
		)
	}
}
