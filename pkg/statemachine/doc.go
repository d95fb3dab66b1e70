// Package statemachine provides a small, generic finite-state-machine
// implementation for modelling entity lifecycles.
//
// States and events are any comparable types, typically string-based enums:
//
//	type Phase string
//	type Trigger string
//
// The transition table is described once as an immutable Definition and then
// shared by any number of running Machines. This keeps per-entity machines
// cheap: a Machine only carries its current state.
//
// # Usage
//
//	const (
//	    Draft     Phase   = "draft"
//	    Published Phase   = "published"
//	    Publish   Trigger = "publish"
//	)
//
//	lifecycle := statemachine.MustDefine(
//	    statemachine.WithTransition[Phase, Trigger](Draft, Published, Publish),
//	)
//
//	m := lifecycle.Start(Draft)
//	if err := m.Fire(ctx, Publish); err != nil {
//	    // handle error
//	}
//
// # Guards and Actions
//
// Guards veto a transition based on runtime conditions. When several
// transitions share the same from/event pair, the first one whose guards all
// pass wins. Actions run after guards and before the state changes; an action
// error aborts the transition.
//
// # Error Handling
//
//	if statemachine.IsNoTransitionAvailableError(err) { /* ... */ }
//	if statemachine.IsTransitionRejectedError(err)   { /* ... */ }
//
// # Concurrency
//
// Definitions are read-only after construction. Machine guards its current
// state with a RWMutex, making Current and CanFire cheap while Fire and Reset
// are serialized.
package statemachine
