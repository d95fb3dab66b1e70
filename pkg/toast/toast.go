package toast

import (
	"github.com/jonboulle/clockwork"

	"github.com/dmitrymomot/toastkit/pkg/statemachine"
)

// Toast is a point-in-time snapshot of a notification.
type Toast struct {
	ID       string
	Message  string
	Severity Severity
	Phase    Phase
}

// Presentation returns the icon and color for the toast's severity.
func (t Toast) Presentation() Presentation {
	return t.Severity.Presentation()
}

// ElementID is the DOM id of the rendered toast.
func (t Toast) ElementID() string {
	return "toast-" + t.ID
}

// entry is the live, mutable side of a toast. Guarded by Manager.mu.
type entry struct {
	id       string
	message  string
	severity Severity
	fsm      *statemachine.Machine[Phase, trigger]

	enter clockwork.Timer
	dwell clockwork.Timer
	exit  clockwork.Timer
}

func (e *entry) snapshot() Toast {
	return Toast{
		ID:       e.id,
		Message:  e.message,
		Severity: e.severity,
		Phase:    e.fsm.Current(),
	}
}

// stopPending cancels the enter and dwell timers. A timer that already fired
// is harmless: its transition is no longer available and it becomes a no-op.
func (e *entry) stopPending() {
	if e.enter != nil {
		e.enter.Stop()
	}
	if e.dwell != nil {
		e.dwell.Stop()
	}
}

func (e *entry) stopAll() {
	e.stopPending()
	if e.exit != nil {
		e.exit.Stop()
	}
}
