package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/toastkit/pkg/logger"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle runs h inside a server span and turns its error into a response.
func (s *Server) handle(name string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), name, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		if err := h(w, r.WithContext(ctx)); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.handleError(w, r.WithContext(ctx), err)
		}
	}
}

// handleError logs err and writes the status. Datastar clients also get a
// toast describing the failure, since they never render the response body.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, err, isDataStar(r))
}

// writeError is handleError with the toast made explicit.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notify bool) {
	he := httpErrorOf(err)
	ctx := r.Context()

	level, sev := slog.LevelWarn, toast.SeverityWarning
	if he.Code >= http.StatusInternalServerError {
		level, sev = slog.LevelError, toast.SeverityError
	}
	s.logger.LogAttrs(ctx, level, "request failed",
		logger.Path(r.URL.Path),
		slog.Int("status", he.Code),
		logger.Error(err),
	)

	if notify {
		s.toasts.Notify(ctx, errorMessage(he, err), sev)
	}
	http.Error(w, he.Key, he.Code)
}

func errorMessage(he HTTPError, err error) string {
	if he.Code >= http.StatusInternalServerError {
		return "Something went wrong, please try again"
	}
	// Client errors are ours to describe; strip the status key prefix.
	msg := strings.TrimPrefix(err.Error(), he.Key+": ")
	if msg == "" {
		return he.Key
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}

// isDataStar reports whether r was issued by the datastar client.
func isDataStar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true" ||
		strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.LogAttrs(r.Context(), slog.LevelDebug, "request",
			slog.String("method", r.Method),
			logger.Path(r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}
