package statemachine

import (
	"fmt"
)

// Option configures a Definition during construction.
type Option[S, E comparable] func(*Definition[S, E]) error

// TransitionOption configures a single transition with guards and actions.
type TransitionOption[S, E comparable] func(*Transition[S, E])

// Define builds an immutable transition table from the given options.
func Define[S, E comparable](opts ...Option[S, E]) (*Definition[S, E], error) {
	d := &Definition[S, E]{
		table: make(map[S]map[E][]Transition[S, E]),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if len(d.table) == 0 {
		return nil, ErrEmptyDefinition
	}

	return d, nil
}

// MustDefine works like Define but panics on error, following the fail-fast
// pattern used for package-level tables.
func MustDefine[S, E comparable](opts ...Option[S, E]) *Definition[S, E] {
	d, err := Define(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to define state machine: %v", err))
	}
	return d
}

// New is a shorthand for defining a table and starting a single machine on it.
func New[S, E comparable](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	d, err := Define(opts...)
	if err != nil {
		return nil, err
	}
	return d.Start(initial), nil
}

// WithTransition adds a single transition to the table.
func WithTransition[S, E comparable](from, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(d *Definition[S, E]) error {
		t := Transition[S, E]{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		return d.add(t)
	}
}

// WithTransitions adds multiple transitions at once.
func WithTransitions[S, E comparable](transitions ...Transition[S, E]) Option[S, E] {
	return func(d *Definition[S, E]) error {
		for i, t := range transitions {
			if err := d.add(t); err != nil {
				return fmt.Errorf("failed to add transition[%d] %v->%v on %v: %w", i, t.From, t.To, t.Event, err)
			}
		}
		return nil
	}
}

// WithGuard adds a guard to a transition. Nil guards are ignored.
func WithGuard[S, E comparable](guard Guard[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		if guard != nil {
			t.Guards = append(t.Guards, guard)
		}
	}
}

// WithAction adds an action to a transition. Nil actions are ignored.
func WithAction[S, E comparable](action Action[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		if action != nil {
			t.Actions = append(t.Actions, action)
		}
	}
}

func (d *Definition[S, E]) add(t Transition[S, E]) error {
	for _, existing := range d.table[t.From][t.Event] {
		if existing.To == t.To && len(existing.Guards) == 0 && len(t.Guards) == 0 {
			return NewErrDuplicateTransition(t.From, t.Event)
		}
	}

	if _, ok := d.table[t.From]; !ok {
		d.table[t.From] = make(map[E][]Transition[S, E])
	}

	// Multiple transitions for the same from/event support guard-based branching
	d.table[t.From][t.Event] = append(d.table[t.From][t.Event], t)
	return nil
}
