package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/toastkit/pkg/logger"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

// rootID is the page element the toast container is rendered into.
const rootID = "toast-root"

// stream pushes every lifecycle event as a datastar element patch until the
// client disconnects or the manager shuts down.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	// Subscribe before taking the snapshot so nothing falls in between.
	sub := s.toasts.Subscribe(ctx)
	defer sub.Close()

	sse := datastar.NewSSE(w, r)
	log := s.logger.With(logger.SubscriberID(sub.ID()))
	log.DebugContext(ctx, "toast stream opened")

	// Events for what the snapshot already shows may still be queued.
	st := &streamState{seen: make(map[string]struct{})}
	if s.toasts.HasContainer() {
		snap := s.toasts.Snapshot()
		for _, t := range snap {
			st.seen[t.ID] = struct{}{}
		}
		st.containerRendered = true
		if err := sse.PatchElementTempl(toast.ContainerView(snap),
			datastar.WithSelector("#"+rootID),
			datastar.WithMode(datastar.ElementPatchModeInner),
		); err != nil {
			log.DebugContext(ctx, "toast stream closed", logger.Error(err))
			return nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			log.DebugContext(ctx, "toast stream closed by client")
			return nil
		case msg, ok := <-sub.Receive(ctx):
			if !ok {
				log.DebugContext(ctx, "toast stream ended by server")
				return nil
			}
			if err := st.patch(sse, msg.Data); err != nil {
				log.LogAttrs(ctx, slog.LevelDebug, "toast stream write failed",
					logger.Event(string(msg.Data.Kind)),
					logger.Error(err),
				)
				return nil
			}
		}
	}
}

// streamState tracks what one client's page already shows.
type streamState struct {
	seen              map[string]struct{}
	containerRendered bool
}

func (st *streamState) patch(sse *datastar.ServerSentEventGenerator, ev toast.Event) error {
	t := ev.Toast
	switch ev.Kind {
	case toast.EventContainerCreated:
		if st.containerRendered {
			return nil
		}
		st.containerRendered = true
		return sse.PatchElementTempl(toast.ContainerView(nil),
			datastar.WithSelector("#"+rootID),
			datastar.WithMode(datastar.ElementPatchModeInner),
		)

	case toast.EventAppended:
		if _, ok := st.seen[t.ID]; ok {
			return nil
		}
		return sse.PatchElementTempl(toast.View(t),
			datastar.WithSelector("#"+toast.ContainerID),
			datastar.WithMode(datastar.ElementPatchModeAppend),
		)

	case toast.EventVisible, toast.EventDisappearing:
		return sse.PatchElementTempl(toast.View(t),
			datastar.WithSelector("#"+t.ElementID()),
			datastar.WithMode(datastar.ElementPatchModeOuter),
		)

	case toast.EventRemoved:
		delete(st.seen, t.ID)
		return sse.PatchElements("",
			datastar.WithSelector("#"+t.ElementID()),
			datastar.WithMode(datastar.ElementPatchModeRemove),
		)

	default:
		return fmt.Errorf("unknown toast event %q", ev.Kind)
	}
}
