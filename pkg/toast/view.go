package toast

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const (
	containerStyle = "position: fixed; top: 1rem; right: 1rem; z-index: 1000;"

	toastBaseStyle = "display: flex; align-items: center; gap: 0.5rem; padding: 1rem; " +
		"color: white; border-radius: 0.5rem; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.2); " +
		"margin-bottom: 0.5rem; transition: all 0.3s ease;"

	shownStyle  = "opacity: 1; transform: translateX(0);"
	hiddenStyle = "opacity: 0; transform: translateX(100%);"
)

// DismissPath is the endpoint the close button posts to.
func DismissPath(id string) string {
	return "/toasts/" + id + "/dismiss"
}

// PhaseStyle returns the inline style for a phase. Only visible toasts are
// shown; the others sit offscreen so the CSS transition animates the change.
func PhaseStyle(p Phase) string {
	if p == PhaseVisible {
		return shownStyle
	}
	return hiddenStyle
}

// View renders a single toast. The message is always HTML-escaped.
func View(t Toast) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pres := t.Presentation()
		_, err := fmt.Fprintf(w,
			`<div id="%s" class="toast toast-%s" data-phase="%s" role="status" style="%s background: %s; %s">`+
				`<i class="fas fa-%s"></i>`+
				`<span>%s</span>`+
				`<button type="button" aria-label="Dismiss" data-on:click="@post('%s')">&times;</button>`+
				`</div>`,
			templ.EscapeString(t.ElementID()),
			templ.EscapeString(t.Severity.Normalize().String()),
			templ.EscapeString(t.Phase.String()),
			toastBaseStyle,
			pres.Hex,
			PhaseStyle(t.Phase),
			pres.Icon,
			templ.EscapeString(t.Message),
			templ.EscapeString(DismissPath(t.ID)),
		)
		return err
	})
}

// ContainerView renders the container with the given toasts in stacking order.
func ContainerView(toasts []Toast) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div id="%s" class="toast-container" style="%s">`, ContainerID, containerStyle); err != nil {
			return err
		}
		for _, t := range toasts {
			if err := View(t).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
