package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/toastkit/pkg/sanitizer"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

type toastResponse struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Phase    string `json:"phase"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
}

func newToastResponse(t toast.Toast) toastResponse {
	p := t.Presentation()
	return toastResponse{
		ID:       t.ID,
		Message:  t.Message,
		Severity: t.Severity.String(),
		Phase:    t.Phase.String(),
		Icon:     p.Icon,
		Color:    p.Color,
	}
}

func (s *Server) notify(w http.ResponseWriter, r *http.Request) error {
	req, err := bindNotify(r)
	if err != nil {
		return err
	}

	msg := sanitizer.Message(req.Message)
	if msg == "" {
		return fmt.Errorf("%w: %w", ErrBadRequest, ErrEmptyMessage)
	}

	t := s.toasts.Notify(r.Context(), msg, toast.ParseSeverity(req.Severity))
	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.String("toast.id", t.ID),
		attribute.String("toast.severity", t.Severity.String()),
	)

	if isDataStar(r) {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	return writeJSON(w, http.StatusCreated, newToastResponse(t))
}

// dismiss answers 204 for any live toast, even one already on its way out.
func (s *Server) dismiss(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if _, ok := s.toasts.Get(id); !ok {
		return fmt.Errorf("%w: %w", ErrNotFound, ErrUnknownToast)
	}

	dismissed := s.toasts.Dismiss(r.Context(), id)
	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.String("toast.id", id),
		attribute.Bool("toast.dismissed", dismissed),
	)

	w.WriteHeader(http.StatusNoContent)
	return nil
}
