package toast

import "context"

// EventKind names a lifecycle change.
type EventKind string

const (
	EventContainerCreated EventKind = "container_created"
	EventAppended         EventKind = "appended"
	EventVisible          EventKind = "visible"
	EventDisappearing     EventKind = "disappearing"
	EventRemoved          EventKind = "removed"
)

// Event reports a lifecycle change. Toast is zero for EventContainerCreated.
type Event struct {
	Kind  EventKind
	Toast Toast
	// Dismissed is set on EventDisappearing when the user closed the toast
	// before its dwell time elapsed.
	Dismissed bool
}

// Observer is notified synchronously of every lifecycle event, in order per
// toast. Implementations must be fast and must not call back into the Manager.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) {
	f(ctx, ev)
}
