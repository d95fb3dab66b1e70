package toast

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/toastkit/pkg/logger"
	"github.com/dmitrymomot/toastkit/pkg/statemachine"
)

// Phase is a stage of a toast's visual lifecycle.
type Phase string

const (
	// PhaseAppearing: inserted with zero opacity and offset, waiting one paint.
	PhaseAppearing Phase = "appearing"
	// PhaseVisible: fully shown until dwell elapses or the user dismisses it.
	PhaseVisible Phase = "visible"
	// PhaseDisappearing: exit animation running.
	PhaseDisappearing Phase = "disappearing"
	// PhaseRemoved: gone from the container. Terminal.
	PhaseRemoved Phase = "removed"
)

func (p Phase) String() string {
	return string(p)
}

type trigger string

const (
	triggerEnter   trigger = "enter"
	triggerDwell   trigger = "dwell"
	triggerDismiss trigger = "dismiss"
	triggerExit    trigger = "exit"
)

// lifecycle is shared by every toast. Dwell and dismiss may also arrive
// before the enter tick, in which case the toast skips straight to the exit.
var lifecycle = statemachine.MustDefine(
	step(PhaseAppearing, PhaseVisible, triggerEnter),
	step(PhaseAppearing, PhaseDisappearing, triggerDwell),
	step(PhaseAppearing, PhaseDisappearing, triggerDismiss),
	step(PhaseVisible, PhaseDisappearing, triggerDwell),
	step(PhaseVisible, PhaseDisappearing, triggerDismiss),
	step(PhaseDisappearing, PhaseRemoved, triggerExit),
)

func step(from, to Phase, trig trigger) statemachine.Option[Phase, trigger] {
	return statemachine.WithTransition(from, to, trig, statemachine.WithAction[Phase, trigger](logPhase))
}

type phaseLoggerKey struct{}

// withPhaseLogger attaches the logger that logPhase writes to.
func withPhaseLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, phaseLoggerKey{}, l)
}

func logPhase(ctx context.Context, from, to Phase, trig trigger) error {
	if l, ok := ctx.Value(phaseLoggerKey{}).(*slog.Logger); ok {
		l.LogAttrs(ctx, slog.LevelDebug, "toast phase changed",
			slog.String("from", from.String()),
			logger.Phase(to),
			logger.Event(string(trig)),
		)
	}
	return nil
}
