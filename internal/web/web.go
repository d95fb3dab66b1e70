// Package web serves the toast demo page and drives it over a datastar
// server-sent event stream.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/toastkit/pkg/clientip"
	"github.com/dmitrymomot/toastkit/pkg/debounce"
	"github.com/dmitrymomot/toastkit/pkg/httpserver"
	"github.com/dmitrymomot/toastkit/pkg/logger"
	"github.com/dmitrymomot/toastkit/pkg/ratelimiter"
	"github.com/dmitrymomot/toastkit/pkg/requestid"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

// DefaultMaxUploadSize bounds multipart bodies on POST /files.
const DefaultMaxUploadSize int64 = 32 << 20

// LimitNoticeInterval is how often one client may be shown the
// "too many requests" toast. Toasts are shared by every open page, so
// rejected requests must not be able to flood them.
const LimitNoticeInterval = 10 * time.Second

// Server holds the HTTP handlers. Create it with New and mount Router.
type Server struct {
	toasts     *toast.Manager
	search     *debounce.Debouncer
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    http.Handler
	middleware []func(http.Handler) http.Handler
	limiter    ratelimiter.RateLimiter
	notices    *ratelimiter.Bucket
	noticeLog  *ratelimiter.MemoryStore
	maxUpload  int64
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMiddleware appends router middleware, e.g. request metrics.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithSearchDebouncer replaces the debouncer used by GET /search.
func WithSearchDebouncer(d *debounce.Debouncer) Option {
	return func(s *Server) {
		if d != nil {
			s.search = d
		}
	}
}

// WithRateLimiter throttles the routes that create toasts, keyed by client IP.
func WithRateLimiter(rl ratelimiter.RateLimiter) Option {
	return func(s *Server) {
		s.limiter = rl
	}
}

func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// New creates a Server that shows toasts through m.
func New(m *toast.Manager, opts ...Option) *Server {
	s := &Server{
		toasts:    m,
		logger:    slog.Default(),
		tracer:    otel.Tracer("github.com/dmitrymomot/toastkit/internal/web"),
		maxUpload: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.search == nil {
		s.search = debounce.New()
	}
	if s.limiter != nil {
		s.noticeLog = ratelimiter.NewMemoryStore()
		s.notices, _ = ratelimiter.NewBucket(s.noticeLog, ratelimiter.Config{
			Capacity:       1,
			RefillRate:     1,
			RefillInterval: LimitNoticeInterval,
		})
	}
	s.logger = s.logger.With(logger.Component("web"))
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(s.middleware...)
	r.Use(s.logRequests)

	r.Get("/", s.handle("page", s.page))
	r.Get("/health/live", httpserver.HealthCheckHandler(s.logger))
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Get("/toasts/stream", s.handle("toasts.stream", s.stream))
	r.Post("/toasts/{id}/dismiss", s.handle("toasts.dismiss", s.dismiss))

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(ratelimiter.Middleware(s.limiter, rateLimitKey, s.rateLimited))
		}
		r.Post("/toasts", s.handle("toasts.notify", s.notify))
		r.Post("/files", s.handle("files.select", s.selectFile))
		r.Delete("/files", s.handle("files.remove", s.removeFile))
		r.Get("/search", s.handle("search", s.searchQuery))
	})

	return r
}

func rateLimitKey(r *http.Request) string {
	return clientip.FromContext(r.Context())
}

// rateLimited answers 429. Datastar clients get the warning toast at most
// once per LimitNoticeInterval.
func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	notify := false
	if isDataStar(r) {
		res, err := s.notices.Allow(r.Context(), rateLimitKey(r))
		notify = err == nil && res.Allowed()
	}
	s.writeError(w, r, fmt.Errorf("%w: %w", ErrTooManyRequests, ErrRateLimited), notify)
}

// Close cancels pending debounced searches.
func (s *Server) Close() {
	s.search.Stop()
	if s.noticeLog != nil {
		s.noticeLog.Close()
	}
}
