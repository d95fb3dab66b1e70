package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Guard evaluates whether a transition should be allowed based on runtime conditions.
type Guard[S, E comparable] func(ctx context.Context, from S, event E) bool

// Action executes side effects during a transition. Returning an error aborts it.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E) error

// Transition defines a state change triggered by an event.
type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]  // All must pass for transition to proceed
	Actions []Action[S, E] // Executed in order before state change
}

// Definition is an immutable transition table shared by many machines.
// Build it once with Define and start cheap per-entity machines with Start.
type Definition[S, E comparable] struct {
	table map[S]map[E][]Transition[S, E]
}

// Machine is a single running instance of a Definition.
// All methods are safe for concurrent use.
type Machine[S, E comparable] struct {
	def     *Definition[S, E]
	initial S
	current S
	mu      sync.RWMutex
}

// Start creates a machine positioned at the given initial state.
func (d *Definition[S, E]) Start(initial S) *Machine[S, E] {
	return &Machine[S, E]{
		def:     d,
		initial: initial,
		current: initial,
	}
}

// Events returns the events accepted from the given state in no particular order.
func (d *Definition[S, E]) Events(from S) []E {
	byEvent, ok := d.table[from]
	if !ok {
		return nil
	}
	events := make([]E, 0, len(byEvent))
	for evt := range byEvent {
		events = append(events, evt)
	}
	return events
}

// IsTerminal reports whether no transition leaves the given state.
func (d *Definition[S, E]) IsTerminal(state S) bool {
	return len(d.table[state]) == 0
}

func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is currently in the given state.
func (m *Machine[S, E]) Is(state S) bool {
	return m.Current() == state
}

// Fire applies the first transition for event whose guards all pass.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.lookup(ctx, event)
	if err != nil {
		return err
	}

	for _, action := range t.Actions {
		if err := action(ctx, m.current, t.To, event); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	return nil
}

// CanFire reports whether Fire would find an eligible transition.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := m.lookup(ctx, event)
	return err == nil
}

// Reset moves the machine back to its initial state.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

// lookup must be called with m.mu held.
func (m *Machine[S, E]) lookup(ctx context.Context, event E) (*Transition[S, E], error) {
	transitions := m.def.table[m.current][event]
	if len(transitions) == 0 {
		return nil, NewErrNoTransitionAvailable(m.current, event)
	}

	// First transition with passing guards wins
	for i := range transitions {
		if passes(ctx, transitions[i], m.current, event) {
			return &transitions[i], nil
		}
	}

	return nil, NewErrTransitionRejected(m.current, event)
}

func passes[S, E comparable](ctx context.Context, t Transition[S, E], from S, event E) bool {
	for _, guard := range t.Guards {
		if !guard(ctx, from, event) {
			return false
		}
	}
	return true
}
